package hashes

import (
	"crypto/sha256"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	transactionHashDomain         = "TransactionHash"
	transactionIDDomain           = "TransactionID"
	transactionSigningDomain      = "TransactionSigningHash"
	transactionSigningECDSADomain = "TransactionSigningHashECDSA"
)

// transactionSigningECDSADomainHash is prepended to every ECDSA signing hash
var transactionSigningECDSADomainHash = sha256.Sum256([]byte(transactionSigningECDSADomain))

func newKeyedBlake2bWriter(domain string) HashWriter {
	// blake2b.New256 only fails when the key is longer than 64 bytes.
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewTransactionHashWriter Returns a new HashWriter used for transaction hashes
func NewTransactionHashWriter() HashWriter {
	return newKeyedBlake2bWriter(transactionHashDomain)
}

// NewTransactionIDWriter Returns a new HashWriter used for transaction IDs
func NewTransactionIDWriter() HashWriter {
	return newKeyedBlake2bWriter(transactionIDDomain)
}

// NewTransactionSigningHashWriter Returns a new HashWriter used for signing on a transaction
func NewTransactionSigningHashWriter() HashWriter {
	return newKeyedBlake2bWriter(transactionSigningDomain)
}

// NewTransactionSigningHashECDSAWriter Returns a new HashWriter used for signing on a transaction with ECDSA
func NewTransactionSigningHashECDSAWriter() HashWriter {
	hashWriter := HashWriter{sha256.New()}
	hashWriter.InfallibleWrite(transactionSigningECDSADomainHash[:])
	return hashWriter
}

// Blake2b256 returns the unkeyed BLAKE2b-256 hash of data. It is used for
// pay-to-script-hash commitments.
func Blake2b256(data []byte) *externalapi.DomainHash {
	sum := blake2b.Sum256(data)
	return externalapi.NewDomainHashFromByteArray(&sum)
}
