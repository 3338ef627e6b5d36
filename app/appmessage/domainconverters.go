package appmessage

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/consensushashing"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/subnetworks"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/transactionid"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
)

// RPCTransactionToDomainTransaction converts RPCTransactions to DomainTransactions
func RPCTransactionToDomainTransaction(rpcTransaction *RPCTransaction) (*externalapi.DomainTransaction, error) {
	inputs := make([]*externalapi.DomainTransactionInput, len(rpcTransaction.Inputs))
	for i, input := range rpcTransaction.Inputs {
		previousOutpoint, err := RPCOutpointToDomainOutpoint(input.PreviousOutpoint)
		if err != nil {
			return nil, err
		}
		signatureScript, err := hex.DecodeString(input.SignatureScript)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d has a malformed signature script", i)
		}
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: *previousOutpoint,
			SignatureScript:  signatureScript,
			Sequence:         input.Sequence,
			SigOpCount:       input.SigOpCount,
		}
	}
	outputs := make([]*externalapi.DomainTransactionOutput, len(rpcTransaction.Outputs))
	for i, output := range rpcTransaction.Outputs {
		if output.ScriptPublicKey == nil {
			return nil, errors.Errorf("output %d is missing its script public key", i)
		}
		scriptPublicKey, err := hex.DecodeString(output.ScriptPublicKey.Script)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d has a malformed script public key", i)
		}
		outputs[i] = &externalapi.DomainTransactionOutput{
			Value:           output.Amount,
			ScriptPublicKey: &externalapi.ScriptPublicKey{Script: scriptPublicKey, Version: output.ScriptPublicKey.Version},
		}
	}

	subnetworkID, err := subnetworks.FromString(rpcTransaction.SubnetworkID)
	if err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(rpcTransaction.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "malformed payload")
	}

	return &externalapi.DomainTransaction{
		Version:      rpcTransaction.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     rpcTransaction.LockTime,
		SubnetworkID: *subnetworkID,
		Gas:          rpcTransaction.Gas,
		Payload:      payload,
		Mass:         rpcTransaction.Mass,
	}, nil
}

// RPCOutpointToDomainOutpoint converts RPCOutpoint to DomainOutpoint
func RPCOutpointToDomainOutpoint(outpoint *RPCOutpoint) (*externalapi.DomainOutpoint, error) {
	if outpoint == nil {
		return nil, errors.New("missing outpoint")
	}
	transactionID, err := transactionid.FromString(outpoint.TransactionID)
	if err != nil {
		return nil, err
	}
	return &externalapi.DomainOutpoint{
		TransactionID: *transactionID,
		Index:         outpoint.Index,
	}, nil
}

// RPCUTXOEntryToUTXOEntry converts RPCUTXOEntry to UTXOEntry
func RPCUTXOEntryToUTXOEntry(entry *RPCUTXOEntry) (externalapi.UTXOEntry, error) {
	if entry == nil || entry.ScriptPublicKey == nil {
		return nil, errors.New("missing UTXO entry script public key")
	}
	script, err := hex.DecodeString(entry.ScriptPublicKey.ScriptPublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "malformed UTXO entry script public key")
	}

	return utxo.NewUTXOEntry(
		uint64(entry.Amount),
		&externalapi.ScriptPublicKey{
			Script:  script,
			Version: entry.ScriptPublicKey.Version,
		},
		entry.IsCoinbase,
		uint64(entry.BlockDAAScore),
	), nil
}

// RPCUTXOEntriesToUTXOs converts the entries of a getUtxosByAddresses
// response to domain outpoint and UTXO entry pairs
func RPCUTXOEntriesToUTXOs(entries []*UTXOsByAddressesEntry) ([]*externalapi.OutpointAndUTXOEntryPair, error) {
	pairs := make([]*externalapi.OutpointAndUTXOEntryPair, len(entries))
	for i, entry := range entries {
		outpoint, err := RPCOutpointToDomainOutpoint(entry.Outpoint)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d of %s", i, entry.Address)
		}
		utxoEntry, err := RPCUTXOEntryToUTXOEntry(entry.UTXOEntry)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d of %s", i, entry.Address)
		}
		pairs[i] = &externalapi.OutpointAndUTXOEntryPair{
			Outpoint:  outpoint,
			UTXOEntry: utxoEntry,
		}
	}
	return pairs, nil
}

// DomainTransactionToRPCTransaction converts DomainTransactions to RPCTransactions
func DomainTransactionToRPCTransaction(transaction *externalapi.DomainTransaction) *RPCTransaction {
	inputs := make([]*RPCTransactionInput, len(transaction.Inputs))
	for i, input := range transaction.Inputs {
		previousOutpoint := &RPCOutpoint{
			TransactionID: input.PreviousOutpoint.TransactionID.String(),
			Index:         input.PreviousOutpoint.Index,
		}
		inputs[i] = &RPCTransactionInput{
			PreviousOutpoint: previousOutpoint,
			SignatureScript:  hex.EncodeToString(input.SignatureScript),
			Sequence:         input.Sequence,
			SigOpCount:       input.SigOpCount,
		}
	}
	outputs := make([]*RPCTransactionOutput, len(transaction.Outputs))
	for i, output := range transaction.Outputs {
		outputs[i] = &RPCTransactionOutput{
			Amount: output.Value,
			ScriptPublicKey: &RPCScriptPublicKey{
				Script:  hex.EncodeToString(output.ScriptPublicKey.Script),
				Version: output.ScriptPublicKey.Version,
			},
		}
	}
	return &RPCTransaction{
		ID:           consensushashing.TransactionID(transaction).String(),
		Version:      transaction.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     transaction.LockTime,
		SubnetworkID: transaction.SubnetworkID.String(),
		Gas:          transaction.Gas,
		Payload:      hex.EncodeToString(transaction.Payload),
		Mass:         transaction.Mass,
	}
}
