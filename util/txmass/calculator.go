package txmass

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/transactionhelper"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/pkg/errors"
)

var (
	// ErrMassLimitExceeded is returned when a transaction is heavier than
	// the block mass limit
	ErrMassLimitExceeded = errors.New("mass limit exceeded")

	// ErrStorageMass is returned when storage mass can't be calculated for a
	// transaction, because of missing UTXO entries or zero valued outputs or
	// inputs
	ErrStorageMass = errors.New("storage mass can't be calculated")
)

// Calculator exposes methods to calculate the mass of a transaction
type Calculator struct {
	massPerTxByte           uint64
	massPerScriptPubKeyByte uint64
	massPerSigOp            uint64

	// The parameter for scaling inverse KAS value to mass units (KIP-0009)
	storageMassParameter uint64

	maxBlockMass           uint64
	kip9ActivationDAAScore uint64
}

// NewCalculator creates a new instance of Calculator with mainnet storage
// mass and block mass settings
func NewCalculator(massPerTxByte, massPerScriptPubKeyByte, massPerSigOp uint64) *Calculator {
	return &Calculator{
		massPerTxByte:           massPerTxByte,
		massPerScriptPubKeyByte: massPerScriptPubKeyByte,
		massPerSigOp:            massPerSigOp,
		storageMassParameter:    dagconfig.MainnetParams.StorageMassParameter,
		maxBlockMass:            dagconfig.MainnetParams.MaxBlockMass,
		kip9ActivationDAAScore:  0,
	}
}

// NewCalculatorFromParams creates a Calculator with all the mass related
// settings of params
func NewCalculatorFromParams(params *dagconfig.Params) *Calculator {
	return &Calculator{
		massPerTxByte:           params.MassPerTxByte,
		massPerScriptPubKeyByte: params.MassPerScriptPubKeyByte,
		massPerSigOp:            params.MassPerSigOp,
		storageMassParameter:    params.StorageMassParameter,
		maxBlockMass:            params.MaxBlockMass,
		kip9ActivationDAAScore:  params.KIP9ActivationDAAScore,
	}
}

// MassPerTxByte returns the mass per transaction byte configured for this Calculator
func (c *Calculator) MassPerTxByte() uint64 { return c.massPerTxByte }

// MassPerScriptPubKeyByte returns the mass per ScriptPublicKey byte configured for this Calculator
func (c *Calculator) MassPerScriptPubKeyByte() uint64 { return c.massPerScriptPubKeyByte }

// MassPerSigOp returns the mass per SigOp byte configured for this Calculator
func (c *Calculator) MassPerSigOp() uint64 { return c.massPerSigOp }

// MaxBlockMass returns the largest mass a single transaction may have
func (c *Calculator) MaxBlockMass() uint64 { return c.maxBlockMass }

// CalculateTransactionMass calculates the compute mass of the given transaction
func (c *Calculator) CalculateTransactionMass(transaction *externalapi.DomainTransaction) uint64 {
	if transactionhelper.IsCoinBase(transaction) {
		return 0
	}

	// calculate mass for size
	size := transactionEstimatedSerializedSize(transaction)
	massForSize := size * c.massPerTxByte

	// calculate mass for scriptPubKey
	totalScriptPubKeySize := uint64(0)
	for _, output := range transaction.Outputs {
		totalScriptPubKeySize += scriptPublicKeySize(output.ScriptPublicKey)
	}
	massForScriptPubKey := totalScriptPubKeySize * c.massPerScriptPubKeyByte

	// calculate mass for SigOps
	totalSigOpCount := uint64(0)
	for _, input := range transaction.Inputs {
		totalSigOpCount += uint64(input.SigOpCount)
	}
	massForSigOps := totalSigOpCount * c.massPerSigOp

	// Sum all components of mass
	return massForSize + massForScriptPubKey + massForSigOps
}

// BlankTransactionMass returns the compute mass of a transaction without
// inputs, outputs or payload
func (c *Calculator) BlankTransactionMass() uint64 {
	return blankTransactionEstimatedSerializedSize() * c.massPerTxByte
}

// PayloadMass returns the compute mass payloadLength payload bytes add to
// a transaction
func (c *Calculator) PayloadMass(payloadLength int) uint64 {
	return uint64(payloadLength) * c.massPerTxByte
}

// InputMass returns the compute mass an input with a signatureScriptSize
// bytes long signature script and sigOpCount signature operations adds to
// a transaction
func (c *Calculator) InputMass(signatureScriptSize uint64, sigOpCount uint8) uint64 {
	size := outpointEstimatedSerializedSize() + 8 + signatureScriptSize + 8
	return size*c.massPerTxByte + uint64(sigOpCount)*c.massPerSigOp
}

// OutputMass returns the compute mass an output paying to scriptPublicKey
// adds to a transaction
func (c *Calculator) OutputMass(scriptPublicKey *externalapi.ScriptPublicKey) uint64 {
	output := &externalapi.DomainTransactionOutput{ScriptPublicKey: scriptPublicKey}
	return TransactionOutputEstimatedSerializedSize(output)*c.massPerTxByte +
		scriptPublicKeySize(scriptPublicKey)*c.massPerScriptPubKeyByte
}

// CalculateTransactionStorageMass calculates the storage mass of the given transaction (see KIP-0009)
func (c *Calculator) CalculateTransactionStorageMass(transaction *externalapi.DomainTransaction) (uint64, error) {
	if transactionhelper.IsCoinBase(transaction) {
		return 0, nil
	}

	outsLen := uint64(len(transaction.Outputs))
	insLen := uint64(len(transaction.Inputs))

	if insLen == 0 {
		return 0, errors.Wrapf(ErrStorageMass, "transaction has no inputs")
	}

	inputAmounts := make([]uint64, insLen)
	for i, input := range transaction.Inputs {
		if input.UTXOEntry == nil {
			return 0, errors.Wrapf(ErrStorageMass, "input %d has no UTXO entry", i)
		}
		if input.UTXOEntry.Amount() == 0 {
			return 0, errors.Wrapf(ErrStorageMass, "input %d spends a zero valued UTXO", i)
		}
		inputAmounts[i] = input.UTXOEntry.Amount()
	}

	harmonicOuts := uint64(0)
	for i, output := range transaction.Outputs {
		if output.Value == 0 {
			return 0, errors.Wrapf(ErrStorageMass, "output %d has zero value", i)
		}
		inverseOut := c.storageMassParameter / output.Value
		if harmonicOuts+inverseOut < harmonicOuts {
			// This requires 10^7 outputs so is unrealistic for wallet usages.
			return 0, errors.Wrapf(ErrStorageMass, "overflow in storage mass calculation")
		}
		harmonicOuts += inverseOut
	}

	// The relaxed formula applies to transactions that can't be used to
	// fragment UTXOs: one output, one input or two of each.
	if outsLen == 1 || insLen == 1 || (outsLen == 2 && insLen == 2) {
		harmonicDiff := harmonicOuts
		for _, amount := range inputAmounts {
			inverseIn := c.storageMassParameter / amount
			if harmonicDiff < inverseIn {
				harmonicDiff = 0
			} else {
				harmonicDiff -= inverseIn
			}
		}
		return harmonicDiff, nil
	}

	sumIns := uint64(0)
	for _, amount := range inputAmounts {
		// Total supply is bounded, so a sum of existing UTXO entries cannot overflow
		sumIns += amount
	}
	meanIns := sumIns / insLen
	inverseMeanIns := c.storageMassParameter / meanIns
	arithmeticIns := insLen * inverseMeanIns

	if arithmeticIns < inverseMeanIns {
		// overflow (so subtraction would be negative)
		return 0, nil
	}
	if harmonicOuts < arithmeticIns {
		return 0, nil
	}
	return harmonicOuts - arithmeticIns, nil
}

// CalculateTransactionOverallMass calculates the overall mass of the transaction including compute and
// storage mass components (see KIP-0009). Storage mass only counts once KIP9 is active at daaScore.
func (c *Calculator) CalculateTransactionOverallMass(transaction *externalapi.DomainTransaction,
	daaScore uint64) (uint64, error) {

	computeMass := c.CalculateTransactionMass(transaction)
	if daaScore < c.kip9ActivationDAAScore {
		return computeMass, nil
	}

	storageMass, err := c.CalculateTransactionStorageMass(transaction)
	if err != nil {
		return 0, err
	}
	return max(computeMass, storageMass), nil
}

// ValidateMass returns an error wrapping ErrMassLimitExceeded if mass is
// above the block mass limit
func (c *Calculator) ValidateMass(mass uint64) error {
	if mass > c.maxBlockMass {
		return errors.Wrapf(ErrMassLimitExceeded, "mass %d is larger than the maximum of %d", mass, c.maxBlockMass)
	}
	return nil
}

// transactionEstimatedSerializedSize is the estimated size of a transaction in some
// serialization. This has to be deterministic, but not necessarily accurate, since
// it's only used as the size component in the transaction and block mass limit
// calculation.
func transactionEstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	if transactionhelper.IsCoinBase(tx) {
		return 0
	}
	size := blankTransactionEstimatedSerializedSize()
	for _, input := range tx.Inputs {
		size += transactionInputEstimatedSerializedSize(input)
	}
	for _, output := range tx.Outputs {
		size += TransactionOutputEstimatedSerializedSize(output)
	}
	size += uint64(len(tx.Payload))

	return size
}

func blankTransactionEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += 2 // Txn Version
	size += 8 // number of inputs (uint64)
	size += 8 // number of outputs (uint64)
	size += 8 // lock time (uint64)
	size += externalapi.DomainSubnetworkIDSize
	size += 8                          // gas (uint64)
	size += externalapi.DomainHashSize // payload hash
	size += 8                          // length of the payload (uint64)
	return size
}

func transactionInputEstimatedSerializedSize(input *externalapi.DomainTransactionInput) uint64 {
	size := uint64(0)
	size += outpointEstimatedSerializedSize()

	size += 8 // length of signature script (uint64)
	size += uint64(len(input.SignatureScript))

	size += 8 // sequence (uint64)
	return size
}

func outpointEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += externalapi.DomainHashSize // ID
	size += 4                          // index (uint32)
	return size
}

// TransactionOutputEstimatedSerializedSize is the same as transactionEstimatedSerializedSize but for outputs only
func TransactionOutputEstimatedSerializedSize(output *externalapi.DomainTransactionOutput) uint64 {
	size := uint64(0)
	size += 8 // value (uint64)
	size += 2 // output.ScriptPublicKey.Version (uint 16)
	size += 8 // length of script public key (uint64)
	size += uint64(len(output.ScriptPublicKey.Script))
	return size
}

func scriptPublicKeySize(scriptPublicKey *externalapi.ScriptPublicKey) uint64 {
	return 2 + uint64(len(scriptPublicKey.Script)) // version (uint16) + script
}
