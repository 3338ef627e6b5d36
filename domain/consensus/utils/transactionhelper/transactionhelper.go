package transactionhelper

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/subnetworks"
)

// IsCoinBase determines whether or not a transaction is a coinbase transaction. A coinbase
// transaction is a special transaction created by miners that distributes fees and block subsidy
// to the previous blocks' miners, and specifies the script_pub_key that should be used to pay the current
// block reward.
func IsCoinBase(tx *externalapi.DomainTransaction) bool {
	return tx.SubnetworkID == subnetworks.SubnetworkIDCoinbase
}

// NewNativeTransaction returns a new native transaction with the current
// transaction version and no payload
func NewNativeTransaction(inputs []*externalapi.DomainTransactionInput,
	outputs []*externalapi.DomainTransactionOutput) *externalapi.DomainTransaction {

	return &externalapi.DomainTransaction{
		Version:      constants.MaxTransactionVersion,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     0,
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Gas:          0,
		Payload:      []byte{},
		Mass:         0,
	}
}
