package krc20

import (
	"encoding/hex"
	"time"

	"github.com/kaspanet/go-secp256k1"
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/transactionid"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/domain/wallet/generator"
	"github.com/krcwallet/kaspacore/infrastructure/logger"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// DefaultInscriptionAmount is the value, in sompi, a commit transaction
// locks in the inscription script: 0.3 KAS
const DefaultInscriptionAmount uint64 = 30_000_000

// FlowConfig configures a Flow
type FlowConfig struct {
	Params  *dagconfig.Params
	KeyPair *secp256k1.SchnorrKeyPair
	Journal Journal

	// InscriptionAmount is the value of the commit output. Zero means
	// DefaultInscriptionAmount.
	InscriptionAmount uint64

	FeeRate     float64
	PriorityFee generator.Fees
	DAAScore    uint64

	// Now returns the time recorded in journal entries. Nil means time.Now.
	Now func() time.Time
}

// Flow builds the commit and reveal transactions of KRC20 operations
// for a single key
type Flow struct {
	config    FlowConfig
	publicKey []byte
	address   *util.AddressPublicKey
}

// CommitResult is the outcome of Flow.Commit
type CommitResult struct {
	// Transactions are signed and must be submitted in order. The last one
	// is the commit transaction.
	Transactions        []*generator.PendingTransaction
	Summary             *generator.Summary
	CommitTransactionID *externalapi.DomainTransactionID
	Script              *Script
}

// RevealResult is the outcome of Flow.Reveal
type RevealResult struct {
	// Transactions are signed and must be submitted in order. The last one
	// is the reveal transaction.
	Transactions        []*generator.PendingTransaction
	Summary             *generator.Summary
	RevealTransactionID *externalapi.DomainTransactionID
	Script              *Script
}

// NewFlow returns a Flow signing with config.KeyPair
func NewFlow(config *FlowConfig) (*Flow, error) {
	if config.Params == nil || config.KeyPair == nil || config.Journal == nil {
		return nil, errors.New("a flow requires params, a key pair and a journal")
	}
	publicKey, err := config.KeyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	address, err := util.NewAddressPublicKey(serializedPublicKey[:], config.Params.Prefix)
	if err != nil {
		return nil, err
	}

	flowConfig := *config
	if flowConfig.InscriptionAmount == 0 {
		flowConfig.InscriptionAmount = DefaultInscriptionAmount
	}
	if flowConfig.Now == nil {
		flowConfig.Now = time.Now
	}
	return &Flow{
		config:    flowConfig,
		publicKey: serializedPublicKey[:],
		address:   address,
	}, nil
}

// Address returns the pay-to-pubkey address of the flow's key, which
// receives all change
func (flow *Flow) Address() *util.AddressPublicKey {
	return flow.address
}

// Script returns the inscription script of inscription for the flow's key
func (flow *Flow) Script(inscription *Inscription) (*Script, error) {
	return NewScript(flow.publicKey, inscription, flow.config.Params.Prefix)
}

func (flow *Flow) settings(entries []*generator.UTXO) *generator.Settings {
	return &generator.Settings{
		ChangeAddress: flow.address,
		Entries:       entries,
		NetworkID:     flow.config.Params.NetworkID(),
		PriorityFee:   flow.config.PriorityFee,
		FeeRate:       flow.config.FeeRate,
		DAAScore:      flow.config.DAAScore,
	}
}

func (flow *Flow) generateAndSign(settings *generator.Settings) ([]*generator.PendingTransaction,
	*generator.Summary, error) {

	pendingTransactions, summary, err := generator.Generate(settings)
	if err != nil {
		return nil, nil, err
	}
	keys := []*secp256k1.SchnorrKeyPair{flow.config.KeyPair}
	for _, pendingTransaction := range pendingTransactions {
		err := pendingTransaction.Sign(keys)
		if err != nil {
			return nil, nil, err
		}
	}
	return pendingTransactions, summary, nil
}

// Commit builds and signs the transactions locking the inscription amount
// in the script of inscription, paid for by entries, and records the
// commit in the journal
func (flow *Flow) Commit(inscription *Inscription, entries []*generator.UTXO) (*CommitResult, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Flow.Commit")
	defer onEnd()

	script, err := flow.Script(inscription)
	if err != nil {
		return nil, err
	}

	settings := flow.settings(entries)
	settings.Outputs = []*generator.PaymentOutput{
		{Address: script.Address, Amount: flow.config.InscriptionAmount},
	}
	pendingTransactions, summary, err := flow.generateAndSign(settings)
	if err != nil {
		return nil, err
	}
	commit := pendingTransactions[len(pendingTransactions)-1]
	if !commit.IsFullySigned() {
		return nil, errors.Errorf("commit transaction %s spends inputs the flow's key can't sign", commit.ID())
	}

	commitTransactionID := commit.ID()
	err = flow.config.Journal.Put(&JournalEntry{
		CommitTransactionID: commitTransactionID.String(),
		OutputIndex:         0,
		Amount:              flow.config.InscriptionAmount,
		RedeemScript:        hex.EncodeToString(script.RedeemScript),
		NetworkID:           flow.config.Params.NetworkID().String(),
		CreatedAt:           flow.config.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Built %s commit %s of %s paying %d sompi to %s", inscription.Operation, commitTransactionID,
		inscription.Tick, flow.config.InscriptionAmount, script.Address)
	return &CommitResult{
		Transactions:        pendingTransactions,
		Summary:             summary,
		CommitTransactionID: commitTransactionID,
		Script:              script,
	}, nil
}

// unfilledReveal is a generated reveal whose inscription inputs still
// lack their signature scripts
type unfilledReveal struct {
	entry               *JournalEntry
	pendingTransactions []*generator.PendingTransaction
	summary             *generator.Summary
	commitOutpoint      *externalapi.DomainOutpoint
	redeemScript        []byte
	script              *Script
}

// Reveal builds and signs the transactions spending the commit output of
// commitTransactionID back to the flow's address. entries are spent only
// if the commit output can't pay the fees alone. The journal entry is kept,
// marked with the reveal transaction ID, until ConfirmReveal is called, so
// a reveal that never made it to the network can be rebuilt.
func (flow *Flow) Reveal(commitTransactionID *externalapi.DomainTransactionID, entries []*generator.UTXO) (
	*RevealResult, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "Flow.Reveal")
	defer onEnd()

	unfilled, err := flow.buildReveal(commitTransactionID, entries)
	if err != nil {
		return nil, err
	}

	revealInputs := 0
	for _, pendingTransaction := range unfilled.pendingTransactions {
		filled, err := flow.fillRevealInputs(pendingTransaction, unfilled.commitOutpoint, unfilled.redeemScript)
		if err != nil {
			return nil, err
		}
		revealInputs += filled
	}
	if revealInputs == 0 {
		return nil, errors.Wrapf(ErrRevealInputNotFound, "no transaction spending commit %s has an "+
			"unsigned input", commitTransactionID)
	}

	reveal := unfilled.pendingTransactions[len(unfilled.pendingTransactions)-1]
	unfilled.entry.RevealTransactionID = reveal.ID().String()
	err = flow.config.Journal.Put(unfilled.entry)
	if err != nil {
		return nil, err
	}

	log.Infof("Built reveal %s of commit %s", reveal.ID(), commitTransactionID)
	return &RevealResult{
		Transactions:        unfilled.pendingTransactions,
		Summary:             unfilled.summary,
		RevealTransactionID: reveal.ID(),
		Script:              unfilled.script,
	}, nil
}

func (flow *Flow) buildReveal(commitTransactionID *externalapi.DomainTransactionID, entries []*generator.UTXO) (
	*unfilledReveal, error) {

	entry, err := flow.config.Journal.Get(commitTransactionID)
	if err != nil {
		return nil, err
	}
	if entry.NetworkID != flow.config.Params.NetworkID().String() {
		return nil, errors.Errorf("commit %s was made on %s", commitTransactionID, entry.NetworkID)
	}
	redeemScript, err := entry.redeemScript()
	if err != nil {
		return nil, err
	}
	script, err := ParseScript(redeemScript, flow.config.Params.Prefix)
	if err != nil {
		return nil, err
	}

	commitOutpoint := externalapi.NewDomainOutpoint(commitTransactionID, entry.OutputIndex)
	commitUTXO := generator.NewUTXO(*commitOutpoint,
		utxo.NewUTXOEntry(entry.Amount, script.ScriptPublicKey, false, constants.UnacceptedDAAScore))
	commitUTXO.RedeemScript = redeemScript

	settings := flow.settings(entries)
	settings.PriorityEntries = []*generator.UTXO{commitUTXO}
	settings.KRC20Reveal = &generator.KRC20RevealSettings{CommitTransactionID: commitTransactionID}

	pendingTransactions, summary, err := flow.generateAndSign(settings)
	if err != nil {
		return nil, err
	}
	return &unfilledReveal{
		entry:               entry,
		pendingTransactions: pendingTransactions,
		summary:             summary,
		commitOutpoint:      commitOutpoint,
		redeemScript:        redeemScript,
		script:              script,
	}, nil
}

// ConfirmReveal removes the journal entry of commitTransactionID once its
// reveal was accepted by the network
func (flow *Flow) ConfirmReveal(commitTransactionID *externalapi.DomainTransactionID) error {
	return ConfirmReveal(flow.config.Journal, commitTransactionID)
}

// fillRevealInputs sets the signature script of every unsigned input of
// pendingTransaction, all of which must spend the commit output
func (flow *Flow) fillRevealInputs(pendingTransaction *generator.PendingTransaction,
	commitOutpoint *externalapi.DomainOutpoint, redeemScript []byte) (int, error) {

	emptyInputs := pendingTransaction.EmptySignatureInputs()
	inputs := pendingTransaction.Transaction().Inputs
	for _, index := range emptyInputs {
		if !inputs[index].PreviousOutpoint.Equal(commitOutpoint) {
			return 0, errors.Errorf("input %d of transaction %s spends %s, which the flow's key can't sign",
				index, pendingTransaction.ID(), inputs[index].PreviousOutpoint)
		}
		signature, err := pendingTransaction.CreateInputSignature(index, flow.config.KeyPair)
		if err != nil {
			return 0, err
		}
		signatureScript, err := txscript.EncodePayToScriptHashSignatureScript(redeemScript, signature)
		if err != nil {
			return 0, err
		}
		err = pendingTransaction.FillInput(index, signatureScript)
		if err != nil {
			return 0, err
		}
		log.Debugf("Filled the inscription input %d of transaction %s", index, pendingTransaction.ID())
	}
	return len(emptyInputs), nil
}

// PendingCommits returns the journal entries of commits whose reveal
// wasn't confirmed yet
func (flow *Flow) PendingCommits() ([]*JournalEntry, error) {
	return flow.config.Journal.Entries()
}

// ParseCommitTransactionID parses a hex commit transaction ID
func ParseCommitTransactionID(commitTransactionID string) (*externalapi.DomainTransactionID, error) {
	id, err := transactionid.FromString(commitTransactionID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid commit transaction ID %q", commitTransactionID)
	}
	return id, nil
}
