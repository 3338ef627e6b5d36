package consensushashing

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/hashes"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/serialization"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/subnetworks"
	"github.com/pkg/errors"
)

// CalculateSignatureHashSchnorr will, given a script and hash type calculate the signature hash
// to be used for signing and verification for Schnorr.
// This returns error only if one of the provided parameters are consensus-invalid.
func CalculateSignatureHashSchnorr(tx *externalapi.DomainTransaction, inputIndex int, hashType SigHashType,
	reusedValues *SighashReusedValues) (*externalapi.DomainHash, error) {

	if !hashType.IsStandardSigHashType() {
		return nil, errors.Wrapf(ErrSerialization, "SigHashType %d is not a valid SigHash type", hashType)
	}
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return nil, errors.Wrapf(ErrSerialization, "input index %d is out of range for a transaction "+
			"with %d inputs", inputIndex, len(tx.Inputs))
	}

	txIn := tx.Inputs[inputIndex]
	if txIn.UTXOEntry == nil {
		return nil, errors.Wrapf(ErrSerialization, "input %d (%s) has no UTXO entry", inputIndex,
			txIn.PreviousOutpoint)
	}
	prevScriptPublicKey := txIn.UTXOEntry.ScriptPublicKey()
	return calculateSignatureHash(tx, inputIndex, txIn, prevScriptPublicKey, hashType, reusedValues)
}

// CalculateSignatureHashECDSA will, given a script and hash type calculate the signature hash
// to be used for signing and verification for ECDSA.
// This returns error only if one of the provided parameters are consensus-invalid.
func CalculateSignatureHashECDSA(tx *externalapi.DomainTransaction, inputIndex int, hashType SigHashType,
	reusedValues *SighashReusedValues) (*externalapi.DomainHash, error) {

	hash, err := CalculateSignatureHashSchnorr(tx, inputIndex, hashType, reusedValues)
	if err != nil {
		return nil, err
	}

	hashWriter := hashes.NewTransactionSigningHashECDSAWriter()
	hashWriter.InfallibleWrite(hash.ByteSlice())

	return hashWriter.Finalize(), nil
}

func calculateSignatureHash(tx *externalapi.DomainTransaction, inputIndex int, txIn *externalapi.DomainTransactionInput,
	prevScriptPublicKey *externalapi.ScriptPublicKey, hashType SigHashType, reusedValues *SighashReusedValues) (
	*externalapi.DomainHash, error) {

	if reusedValues == nil {
		reusedValues = &SighashReusedValues{}
	}

	hashWriter := hashes.NewTransactionSigningHashWriter()
	infallibleWriteElement(hashWriter, tx.Version)

	previousOutputsHash := getPreviousOutputsHash(tx, hashType, reusedValues)
	infallibleWriteElement(hashWriter, previousOutputsHash)

	sequencesHash := getSequencesHash(tx, hashType, reusedValues)
	infallibleWriteElement(hashWriter, sequencesHash)

	sigOpCountsHash := getSigOpCountsHash(tx, hashType, reusedValues)
	infallibleWriteElement(hashWriter, sigOpCountsHash)

	hashOutpoint(hashWriter, txIn.PreviousOutpoint)

	infallibleWriteElement(hashWriter, prevScriptPublicKey.Version)
	infallibleWriteElement(hashWriter, prevScriptPublicKey.Script)

	infallibleWriteElement(hashWriter, txIn.UTXOEntry.Amount())

	infallibleWriteElement(hashWriter, txIn.Sequence)

	infallibleWriteElement(hashWriter, txIn.SigOpCount)

	outputsHash := getOutputsHash(tx, inputIndex, hashType, reusedValues)
	infallibleWriteElement(hashWriter, outputsHash)

	infallibleWriteElement(hashWriter, tx.LockTime)

	infallibleWriteElement(hashWriter, &tx.SubnetworkID)

	infallibleWriteElement(hashWriter, tx.Gas)

	payloadHash := getPayloadHash(tx, reusedValues)
	infallibleWriteElement(hashWriter, payloadHash)

	infallibleWriteElement(hashWriter, uint8(hashType))

	return hashWriter.Finalize(), nil
}

func getPreviousOutputsHash(tx *externalapi.DomainTransaction, hashType SigHashType, reusedValues *SighashReusedValues) *externalapi.DomainHash {
	if hashType.isSigHashAnyOneCanPay() {
		return externalapi.NewZeroHash()
	}

	if reusedValues.previousOutputsHash == nil {
		hashWriter := hashes.NewTransactionSigningHashWriter()
		for _, txIn := range tx.Inputs {
			hashOutpoint(hashWriter, txIn.PreviousOutpoint)
		}
		reusedValues.previousOutputsHash = hashWriter.Finalize()
	}

	return reusedValues.previousOutputsHash
}

func getSequencesHash(tx *externalapi.DomainTransaction, hashType SigHashType, reusedValues *SighashReusedValues) *externalapi.DomainHash {
	if hashType.isSigHashSingle() || hashType.isSigHashAnyOneCanPay() || hashType.isSigHashNone() {
		return externalapi.NewZeroHash()
	}

	if reusedValues.sequencesHash == nil {
		hashWriter := hashes.NewTransactionSigningHashWriter()
		for _, txIn := range tx.Inputs {
			infallibleWriteElement(hashWriter, txIn.Sequence)
		}
		reusedValues.sequencesHash = hashWriter.Finalize()
	}

	return reusedValues.sequencesHash
}

func getSigOpCountsHash(tx *externalapi.DomainTransaction, hashType SigHashType, reusedValues *SighashReusedValues) *externalapi.DomainHash {
	if hashType.isSigHashAnyOneCanPay() {
		return externalapi.NewZeroHash()
	}

	if reusedValues.sigOpCountsHash == nil {
		hashWriter := hashes.NewTransactionSigningHashWriter()
		for _, txIn := range tx.Inputs {
			infallibleWriteElement(hashWriter, txIn.SigOpCount)
		}
		reusedValues.sigOpCountsHash = hashWriter.Finalize()
	}

	return reusedValues.sigOpCountsHash
}

func getPayloadHash(tx *externalapi.DomainTransaction, reusedValues *SighashReusedValues) *externalapi.DomainHash {
	if tx.SubnetworkID == subnetworks.SubnetworkIDNative && len(tx.Payload) == 0 {
		return externalapi.NewZeroHash()
	}

	if reusedValues.payloadHash == nil {
		hashWriter := hashes.NewTransactionSigningHashWriter()
		infallibleWriteElement(hashWriter, tx.Payload)
		reusedValues.payloadHash = hashWriter.Finalize()
	}
	return reusedValues.payloadHash
}

func getOutputsHash(tx *externalapi.DomainTransaction, inputIndex int, hashType SigHashType, reusedValues *SighashReusedValues) *externalapi.DomainHash {
	// SigHashNone: return zero-hash
	if hashType.isSigHashNone() {
		return externalapi.NewZeroHash()
	}

	// SigHashSingle: If the relevant output exists - return its hash, otherwise return zero-hash
	if hashType.isSigHashSingle() {
		if inputIndex >= len(tx.Outputs) {
			return externalapi.NewZeroHash()
		}
		hashWriter := hashes.NewTransactionSigningHashWriter()
		hashTxOut(hashWriter, tx.Outputs[inputIndex])
		return hashWriter.Finalize()
	}

	// SigHashAll: Return hash of all outputs. Re-use hash if available.
	if reusedValues.outputsHash == nil {
		hashWriter := hashes.NewTransactionSigningHashWriter()
		for _, txOut := range tx.Outputs {
			hashTxOut(hashWriter, txOut)
		}
		reusedValues.outputsHash = hashWriter.Finalize()
	}

	return reusedValues.outputsHash
}

func hashTxOut(hashWriter hashes.HashWriter, txOut *externalapi.DomainTransactionOutput) {
	infallibleWriteElement(hashWriter, txOut.Value)
	infallibleWriteElement(hashWriter, txOut.ScriptPublicKey.Version)
	infallibleWriteElement(hashWriter, txOut.ScriptPublicKey.Script)
}

func hashOutpoint(hashWriter hashes.HashWriter, outpoint externalapi.DomainOutpoint) {
	infallibleWriteElement(hashWriter, &outpoint.TransactionID)
	infallibleWriteElement(hashWriter, outpoint.Index)
}

func infallibleWriteElement(hashWriter hashes.HashWriter, element interface{}) {
	err := serialization.WriteElement(hashWriter, element)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		// the only non-writer error path here is unknown types in `WriteElement`
		panic(errors.Wrap(err, "TransactionHashForSigning() failed. this should never fail for structurally-valid transactions"))
	}
}
