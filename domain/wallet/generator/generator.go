package generator

import (
	"math"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/transactionhelper"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/util"
	"github.com/krcwallet/kaspacore/util/txmass"
	"github.com/pkg/errors"
)

// maxFeeIterations bounds the rebuilds needed for a fee to match the mass
// of the transaction paying it
const maxFeeIterations = 16

type state int

const (
	stateAccumulating state = iota
	stateEmitting
	stateDone
)

func (s state) String() string {
	switch s {
	case stateAccumulating:
		return "accumulating"
	case stateEmitting:
		return "emitting"
	default:
		return "done"
	}
}

// Generator builds the transactions paying the outputs of its settings
// out of its candidate UTXOs. When the UTXOs don't fit in a single
// transaction, batch transactions consolidate them into the change address
// before the final transaction is built.
//
// A Generator isn't safe for concurrent use.
type Generator struct {
	settings       *Settings
	params         *dagconfig.Params
	massCalculator *txmass.Calculator
	massLimit      uint64
	daaScore       uint64

	outputs               []*externalapi.DomainTransactionOutput
	paymentAmount         uint64
	changeScriptPublicKey *externalapi.ScriptPublicKey

	priorityEntries []*UTXO
	entries         []*UTXO

	state state
	err   error

	// storageMassExceeded is set when a final transaction was rejected for
	// its storage mass, in which case running out of UTXOs is reported as
	// a mass error
	storageMassExceeded bool

	summary *Summary
}

// New validates settings and returns a Generator for them
func New(settings *Settings) (*Generator, error) {
	params, err := dagconfig.ParamsForNetwork(settings.NetworkID)
	if err != nil {
		return nil, err
	}

	if settings.FeeRate < 0 || math.IsNaN(settings.FeeRate) || math.IsInf(settings.FeeRate, 0) {
		return nil, errors.Wrapf(ErrInvalidGeneratorInput, "invalid fee rate %f", settings.FeeRate)
	}
	if settings.ChangeAddress == nil {
		return nil, errors.Wrapf(ErrInvalidGeneratorInput, "no change address")
	}
	if settings.ChangeAddress.Prefix() != params.Prefix {
		return nil, errors.Wrapf(ErrInvalidGeneratorInput, "change address %s doesn't belong to %s",
			settings.ChangeAddress, params.Name)
	}
	changeScriptPublicKey, err := txscript.PayToAddrScript(settings.ChangeAddress)
	if err != nil {
		return nil, err
	}

	outputs, paymentAmount, err := paymentOutputs(settings.Outputs, params.Prefix)
	if err != nil {
		return nil, err
	}

	if len(settings.Entries)+len(settings.PriorityEntries) == 0 {
		return nil, errors.WithStack(ErrNoUTXOs)
	}
	err = validateEntries(settings)
	if err != nil {
		return nil, err
	}

	massCalculator := txmass.NewCalculatorFromParams(params)
	massLimit := settings.MaximumTransactionMass
	if massLimit == 0 {
		massLimit = DefaultMaximumTransactionMass
	}
	if params.MaxBlockMass < massLimit {
		massLimit = params.MaxBlockMass
	}

	daaScore := settings.DAAScore
	if daaScore == 0 {
		daaScore = math.MaxUint64
	}

	generator := &Generator{
		settings:              settings,
		params:                params,
		massCalculator:        massCalculator,
		massLimit:             massLimit,
		daaScore:              daaScore,
		outputs:               outputs,
		paymentAmount:         paymentAmount,
		changeScriptPublicKey: changeScriptPublicKey,
		priorityEntries:       append([]*UTXO(nil), settings.PriorityEntries...),
		entries:               append([]*UTXO(nil), settings.Entries...),
		state:                 stateAccumulating,
		summary:               &Summary{NetworkID: params.NetworkID()},
	}

	err = generator.checkTotalValue()
	if err != nil {
		return nil, err
	}
	log.Debugf("Created a generator on %s paying %d sompi with %d priority and %d ordinary UTXOs",
		params.Name, paymentAmount, len(settings.PriorityEntries), len(settings.Entries))
	return generator, nil
}

func paymentOutputs(payments []*PaymentOutput, prefix util.Bech32Prefix) (
	[]*externalapi.DomainTransactionOutput, uint64, error) {

	outputs := make([]*externalapi.DomainTransactionOutput, len(payments))
	paymentAmount := uint64(0)
	for i, payment := range payments {
		if payment == nil || payment.Address == nil {
			return nil, 0, errors.Wrapf(ErrInvalidGeneratorInput, "output %d has no address", i)
		}
		if payment.Amount == 0 {
			return nil, 0, errors.Wrapf(ErrInvalidGeneratorInput, "output %d has zero value", i)
		}
		if payment.Address.Prefix() != prefix {
			return nil, 0, errors.Wrapf(ErrInvalidGeneratorInput, "output %d pays to %s "+
				"which belongs to another network", i, payment.Address)
		}
		if paymentAmount+payment.Amount < paymentAmount || paymentAmount+payment.Amount > constants.MaxSompi {
			return nil, 0, errors.Wrapf(ErrInvalidGeneratorInput, "outputs sum to more than %d sompi",
				constants.MaxSompi)
		}
		scriptPublicKey, err := txscript.PayToAddrScript(payment.Address)
		if err != nil {
			return nil, 0, err
		}
		outputs[i] = &externalapi.DomainTransactionOutput{Value: payment.Amount, ScriptPublicKey: scriptPublicKey}
		paymentAmount += payment.Amount
	}
	return outputs, paymentAmount, nil
}

func validateEntries(settings *Settings) error {
	seen := make(map[externalapi.DomainOutpoint]struct{})
	totalValue := uint64(0)
	spendsCommit := false
	for _, entries := range [][]*UTXO{settings.PriorityEntries, settings.Entries} {
		for _, entry := range entries {
			if entry == nil {
				return errors.Wrapf(ErrInvalidGeneratorInput, "nil UTXO")
			}
			err := entry.validate()
			if err != nil {
				return err
			}
			if _, ok := seen[entry.Outpoint]; ok {
				return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s is given more than once", entry.Outpoint)
			}
			seen[entry.Outpoint] = struct{}{}

			// Later sums of UTXO values rely on this bound not to wrap
			totalValue += entry.amount()
			if totalValue > constants.MaxSompi {
				return errors.Wrapf(ErrInvalidGeneratorInput, "UTXOs sum to more than %d sompi",
					constants.MaxSompi)
			}
		}
	}

	if settings.KRC20Reveal == nil {
		return nil
	}
	if settings.KRC20Reveal.CommitTransactionID == nil {
		return errors.Wrapf(ErrInvalidGeneratorInput, "reveal settings without a commit transaction ID")
	}
	for _, entry := range settings.PriorityEntries {
		if entry.Outpoint.TransactionID.Equal(settings.KRC20Reveal.CommitTransactionID) {
			spendsCommit = true
			break
		}
	}
	if !spendsCommit {
		return errors.Wrapf(ErrInvalidGeneratorInput, "no priority UTXO spends commit transaction %s",
			settings.KRC20Reveal.CommitTransactionID)
	}
	return nil
}

// checkTotalValue fails before anything is generated if the UTXOs can't
// even cover the payments and the fee of a transaction without inputs
func (g *Generator) checkTotalValue() error {
	totalValue := uint64(0)
	for _, entries := range [][]*UTXO{g.priorityEntries, g.entries} {
		for _, entry := range entries {
			totalValue += entry.amount()
		}
	}

	minimumFee := uint64(g.settings.PriorityFee)
	if minimumFee == 0 {
		minimumMass := g.massCalculator.BlankTransactionMass() + g.massCalculator.PayloadMass(len(g.settings.Payload))
		for _, output := range g.outputs {
			minimumMass += g.massCalculator.OutputMass(output.ScriptPublicKey)
		}
		minimumFee = g.feeForMass(minimumMass)
	}

	if totalValue < g.paymentAmount+minimumFee {
		return errors.Wrapf(ErrInsufficientFunds, "UTXOs worth %d sompi can't pay %d sompi "+
			"with a fee of at least %d sompi", totalValue, g.paymentAmount, minimumFee)
	}
	return nil
}

// GenerateTransaction returns the next transaction, or nil once the final
// transaction was returned. An error ends the run: transactions returned
// before it stay valid, and every later call returns the same error.
func (g *Generator) GenerateTransaction() (*PendingTransaction, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.state == stateDone {
		return nil, nil
	}

	pendingTransaction, err := g.generateTransaction()
	if err != nil {
		g.err = err
		g.setState(stateDone)
		return nil, err
	}
	return pendingTransaction, nil
}

// Summary returns a report on the transactions generated so far
func (g *Generator) Summary() *Summary {
	return g.summary.Clone()
}

// Generate runs a generator over settings to completion
func Generate(settings *Settings) ([]*PendingTransaction, *Summary, error) {
	generator, err := New(settings)
	if err != nil {
		return nil, nil, err
	}

	var pendingTransactions []*PendingTransaction
	for {
		pendingTransaction, err := generator.GenerateTransaction()
		if err != nil {
			return pendingTransactions, generator.Summary(), err
		}
		if pendingTransaction == nil {
			break
		}
		pendingTransactions = append(pendingTransactions, pendingTransaction)
	}
	return pendingTransactions, generator.Summary(), nil
}

func (g *Generator) setState(newState state) {
	if g.state != newState {
		log.Tracef("Generator state %s -> %s", g.state, newState)
		g.state = newState
	}
}

func (g *Generator) generateTransaction() (*PendingTransaction, error) {
	g.setState(stateAccumulating)
	acc := newAccumulator(g.finalTransactionBaseMass())
	for {
		utxo := g.nextUTXO()
		if utxo == nil {
			if g.storageMassExceeded {
				return nil, errors.Wrapf(txmass.ErrMassLimitExceeded, "the storage mass of the final "+
					"transaction stays above %d with all UTXOs spent", g.massLimit)
			}
			return nil, errors.Wrapf(ErrInsufficientFunds, "UTXOs ran out with %d sompi accumulated "+
				"towards payments of %d sompi", acc.value, g.paymentAmount)
		}

		inputMass := g.inputMass(utxo)
		if acc.computeMass+inputMass > g.massLimit {
			if len(acc.utxos) < 2 {
				return nil, errors.Wrapf(txmass.ErrMassLimitExceeded, "a transaction spending UTXO %s "+
					"would be heavier than %d", utxo.Outpoint, g.massLimit)
			}
			g.pushFront(utxo)
			return g.emitBatch(acc)
		}
		acc.add(utxo, inputMass)

		pendingTransaction, err := g.tryFinalTransaction(acc)
		if err != nil {
			return nil, err
		}
		if pendingTransaction != nil {
			g.summary.add(pendingTransaction, acc.originalUTXOCount())
			g.setState(stateDone)
			log.Debugf("Generated final transaction %s with %d inputs, mass %d and fee %d",
				pendingTransaction.ID(), len(acc.utxos), pendingTransaction.Mass(), pendingTransaction.Fee())
			return pendingTransaction, nil
		}
	}
}

func (g *Generator) nextUTXO() *UTXO {
	if len(g.priorityEntries) > 0 {
		utxo := g.priorityEntries[0]
		g.priorityEntries = g.priorityEntries[1:]
		return utxo
	}
	if len(g.entries) > 0 {
		utxo := g.entries[0]
		g.entries = g.entries[1:]
		return utxo
	}
	return nil
}

func (g *Generator) pushFront(utxo *UTXO) {
	g.priorityEntries = append([]*UTXO{utxo}, g.priorityEntries...)
}

// finalTransactionBaseMass is the compute mass of the final transaction
// before any input is added. Batch transactions are lighter, since they
// carry neither the payments nor the payload.
func (g *Generator) finalTransactionBaseMass() uint64 {
	mass := g.massCalculator.BlankTransactionMass() + g.massCalculator.PayloadMass(len(g.settings.Payload))
	for _, output := range g.outputs {
		mass += g.massCalculator.OutputMass(output.ScriptPublicKey)
	}
	return mass + g.massCalculator.OutputMass(g.changeScriptPublicKey)
}

func (g *Generator) buildTransaction(utxos []*UTXO, outputs []*externalapi.DomainTransactionOutput,
	payload []byte) *externalapi.DomainTransaction {

	inputs := make([]*externalapi.DomainTransactionInput, len(utxos))
	for i, utxo := range utxos {
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: utxo.Outpoint,
			SignatureScript:  []byte{},
			Sequence:         0,
			SigOpCount:       g.settings.sigOpCount(),
			UTXOEntry:        utxo.UTXOEntry,
		}
	}
	transaction := transactionhelper.NewNativeTransaction(inputs, outputs)
	if len(payload) > 0 {
		transaction.Payload = append([]byte(nil), payload...)
	}
	return transaction
}

// emitBatch consolidates the accumulated UTXOs into a single change output,
// which becomes the first UTXO the next transaction spends
func (g *Generator) emitBatch(acc *accumulator) (*PendingTransaction, error) {
	fee := uint64(0)
	for i := 0; i < maxFeeIterations; i++ {
		if acc.value <= fee {
			return nil, errors.Wrapf(ErrInsufficientFunds, "a batch of %d UTXOs worth %d sompi "+
				"can't pay its fee of %d sompi", len(acc.utxos), acc.value, fee)
		}
		changeAmount := acc.value - fee
		outputs := []*externalapi.DomainTransactionOutput{
			{Value: changeAmount, ScriptPublicKey: g.changeScriptPublicKey},
		}
		transaction := g.buildTransaction(acc.utxos, outputs, nil)
		mass, err := g.estimateMassAfterSignatures(transaction, acc.utxos)
		if err != nil {
			return nil, err
		}
		if mass > g.massLimit {
			return nil, errors.Wrapf(txmass.ErrMassLimitExceeded, "batch transaction mass %d is above %d",
				mass, g.massLimit)
		}

		requiredFee := g.feeForMass(mass)
		if requiredFee > fee {
			fee = requiredFee
			continue
		}

		pendingTransaction := newPendingTransaction(transaction, acc.utxos, fee, mass, KindBatch,
			0, changeAmount, g.params.Prefix)
		g.summary.add(pendingTransaction, acc.originalUTXOCount())

		recycled := NewUTXO(
			*externalapi.NewDomainOutpoint(pendingTransaction.ID(), 0),
			utxo.NewUTXOEntry(changeAmount, g.changeScriptPublicKey, false, constants.UnacceptedDAAScore))
		recycled.recycled = true
		g.pushFront(recycled)

		g.setState(stateEmitting)
		log.Debugf("Generated batch transaction %s consolidating %d UTXOs into %d sompi",
			pendingTransaction.ID(), len(acc.utxos), changeAmount)
		return pendingTransaction, nil
	}
	return nil, errors.Errorf("the fee of a batch of %d UTXOs didn't converge", len(acc.utxos))
}

// tryFinalTransaction returns the final transaction if acc covers the
// payments and fees, or nil if more UTXOs are needed
func (g *Generator) tryFinalTransaction(acc *accumulator) (*PendingTransaction, error) {
	if g.settings.PriorityFee > 0 {
		pendingTransaction, err := g.buildFinalTransaction(acc, g.settings)
		if err != nil || pendingTransaction == nil {
			return nil, err
		}
		minimumFee := minimumRelayFee(pendingTransaction.Mass())
		if uint64(g.settings.PriorityFee) < minimumFee {
			return nil, errors.Wrapf(ErrInvalidGeneratorInput, "priority fee %d is below the "+
				"minimum relay fee %d of the final transaction", g.settings.PriorityFee, minimumFee)
		}
		return pendingTransaction, nil
	}

	// Each pass prices the fee from the mass of the transaction built by
	// the previous one
	settings := g.settings.withPriorityFee(0)
	for i := 0; i < maxFeeIterations; i++ {
		pendingTransaction, err := g.buildFinalTransaction(acc, settings)
		if err != nil || pendingTransaction == nil {
			return nil, err
		}
		requiredFee := g.feeForMass(pendingTransaction.Mass())
		if pendingTransaction.Fee() >= requiredFee {
			return pendingTransaction, nil
		}
		settings = g.settings.withPriorityFee(Fees(requiredFee))
	}
	return nil, errors.Errorf("the fee of the final transaction didn't converge")
}

// buildFinalTransaction builds the final transaction charging
// settings.PriorityFee, or returns nil if acc can't pay for it
func (g *Generator) buildFinalTransaction(acc *accumulator, settings *Settings) (*PendingTransaction, error) {
	fee := uint64(settings.PriorityFee)
	if acc.value < g.paymentAmount+fee {
		return nil, nil
	}

	outputs := make([]*externalapi.DomainTransactionOutput, len(g.outputs), len(g.outputs)+1)
	for i, output := range g.outputs {
		outputs[i] = output.Clone()
	}
	changeAmount := acc.value - g.paymentAmount - fee
	if changeAmount > 0 && !isDust(changeAmount, g.changeScriptPublicKey) {
		outputs = append(outputs, &externalapi.DomainTransactionOutput{
			Value:           changeAmount,
			ScriptPublicKey: g.changeScriptPublicKey,
		})
	} else {
		changeAmount = 0
	}
	if len(outputs) == 0 {
		return nil, nil
	}

	transaction := g.buildTransaction(acc.utxos, outputs, settings.Payload)
	mass, err := g.estimateMassAfterSignatures(transaction, acc.utxos)
	if err != nil {
		return nil, err
	}
	if mass > g.massLimit {
		// Only storage mass can get here, and more inputs lower it
		g.storageMassExceeded = true
		return nil, nil
	}

	return newPendingTransaction(transaction, acc.utxos, acc.value-g.paymentAmount-changeAmount, mass,
		KindFinal, g.paymentAmount, changeAmount, g.params.Prefix), nil
}
