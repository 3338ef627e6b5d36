package transactionid

import (
	"encoding/hex"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// FromString creates a new DomainTransactionID from the given string
func FromString(str string) (*externalapi.DomainTransactionID, error) {
	hash, err := externalapi.NewDomainHashFromString(str)
	if err != nil {
		return nil, err
	}
	return (*externalapi.DomainTransactionID)(hash), nil
}

// FromBytes creates a new DomainTransactionID from the given byte slice
func FromBytes(transactionIDBytes []byte) (*externalapi.DomainTransactionID, error) {
	if len(transactionIDBytes) != externalapi.DomainHashSize {
		return nil, errors.Errorf("invalid transaction ID size %d: %s", len(transactionIDBytes),
			hex.EncodeToString(transactionIDBytes))
	}
	return externalapi.NewDomainTransactionIDFromByteSlice(transactionIDBytes)
}
