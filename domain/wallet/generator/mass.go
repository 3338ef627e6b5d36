package generator

import (
	"math"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/util/txmass"
)

// estimatedSignaturePushSize is the size of a pushed signature: the push
// opcode, a 64 byte Schnorr or ECDSA signature and the hash type.
const estimatedSignaturePushSize = 1 + 64 + 1

// pushedDataSize returns the size of dataLength bytes once pushed to a script
func pushedDataSize(dataLength int) uint64 {
	size := uint64(dataLength)
	switch {
	case dataLength <= txscript.OpData75:
		return size + 1
	case dataLength <= math.MaxUint8:
		return size + 2
	case dataLength <= math.MaxUint16:
		return size + 3
	default:
		return size + 5
	}
}

func (g *Generator) estimatedSignatureScriptSize(utxo *UTXO) uint64 {
	size := uint64(g.settings.minimumSignatures()) * estimatedSignaturePushSize
	redeemScript := utxo.RedeemScript
	if utxo.recycled {
		redeemScript = g.settings.ChangeRedeemScript
	}
	if len(redeemScript) > 0 {
		size += pushedDataSize(len(redeemScript))
	}
	return size
}

func (g *Generator) inputMass(utxo *UTXO) uint64 {
	return g.massCalculator.InputMass(g.estimatedSignatureScriptSize(utxo), g.settings.sigOpCount())
}

// estimateMassAfterSignatures returns the overall mass transaction will have
// once every input carries its signature script
func (g *Generator) estimateMassAfterSignatures(transaction *externalapi.DomainTransaction,
	utxos []*UTXO) (uint64, error) {

	transaction = transaction.Clone()
	for i, input := range transaction.Inputs {
		input.SignatureScript = make([]byte, g.estimatedSignatureScriptSize(utxos[i]))
	}
	return g.massCalculator.CalculateTransactionOverallMass(transaction, g.daaScore)
}

func (g *Generator) feeForMass(mass uint64) uint64 {
	return uint64(math.Ceil(float64(mass) * g.settings.feeRate()))
}

func minimumRelayFee(mass uint64) uint64 {
	return uint64(math.Ceil(float64(mass) * MinimumRelayFeeRate))
}

// isDust returns whether an output of value paying to scriptPublicKey costs
// the network more to spend than a third of the minimum relay fee
func isDust(value uint64, scriptPublicKey *externalapi.ScriptPublicKey) bool {
	// value*1000 would overflow, and such a value is never dust
	if value > math.MaxUint64/1000 {
		return false
	}
	output := &externalapi.DomainTransactionOutput{Value: value, ScriptPublicKey: scriptPublicKey}

	// 148 bytes are the minimal size of an input spending a pay-to-pubkey output
	totalSerializedSize := txmass.TransactionOutputEstimatedSerializedSize(output) + 148

	// The minimum relay fee is 1000 sompi per kilobyte
	return value*1000/(3*totalSerializedSize) < 1000
}
