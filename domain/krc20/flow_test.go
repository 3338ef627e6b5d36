package krc20

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/consensushashing"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/domain/wallet/generator"
	"github.com/krcwallet/kaspacore/infrastructure/db/ldb"
)

const sompiPerKaspa = 100_000_000

var testNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestFlow(t *testing.T, journal Journal) (*Flow, *secp256k1.SchnorrKeyPair) {
	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	flow, err := NewFlow(&FlowConfig{
		Params:  &dagconfig.MainnetParams,
		KeyPair: keyPair,
		Journal: journal,
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return flow, keyPair
}

func flowUTXOs(t *testing.T, flow *Flow, amounts ...uint64) []*generator.UTXO {
	scriptPublicKey, err := txscript.PayToAddrScript(flow.Address())
	require.NoError(t, err)

	utxos := make([]*generator.UTXO, len(amounts))
	for i, amount := range amounts {
		var transactionID [externalapi.DomainHashSize]byte
		transactionID[0] = 0xf0
		transactionID[1] = byte(i)
		utxos[i] = generator.NewUTXO(
			*externalapi.NewDomainOutpoint(externalapi.NewDomainTransactionIDFromByteArray(&transactionID), 0),
			utxo.NewUTXOEntry(amount, scriptPublicKey, false, 1000))
	}
	return utxos
}

func verifySchnorrInput(t *testing.T, keyPair *secp256k1.SchnorrKeyPair,
	transaction *externalapi.DomainTransaction, index int) {

	publicKey, err := keyPair.SchnorrPublicKey()
	require.NoError(t, err)
	sigHash, err := consensushashing.CalculateSignatureHashSchnorr(transaction, index, consensushashing.SigHashAll, nil)
	require.NoError(t, err)
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(transaction.Inputs[index].SignatureScript[1:65])
	require.NoError(t, err)
	secpHash := secp256k1.Hash(*sigHash.ByteArray())
	require.True(t, publicKey.SchnorrVerify(&secpHash, signature), "input %d doesn't verify", index)
}

func withoutSignatureScripts(transaction *externalapi.DomainTransaction) *externalapi.DomainTransaction {
	clone := transaction.Clone()
	for _, input := range clone.Inputs {
		input.SignatureScript = []byte{}
	}
	return clone
}

func TestCommitAndReveal(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), "journal")
	require.NoError(t, err)
	defer db.Close()

	journals := map[string]Journal{
		"memory":  NewMemoryJournal(),
		"leveldb": NewLevelDBJournal(db),
	}

	for name, journal := range journals {
		t.Run(name, func(t *testing.T) {
			flow, keyPair := newTestFlow(t, journal)
			inscription, err := Mint("TEST", nil)
			require.NoError(t, err)

			commitResult, err := flow.Commit(inscription, flowUTXOs(t, flow, 10*sompiPerKaspa))
			require.NoError(t, err)
			require.Len(t, commitResult.Transactions, 1)

			commit := commitResult.Transactions[0].Transaction()
			require.True(t, commitResult.CommitTransactionID.Equal(commitResult.Transactions[0].ID()))
			require.True(t, commitResult.CommitTransactionID.Equal(commitResult.Summary.FinalTransactionID))
			require.Equal(t, DefaultInscriptionAmount, commit.Outputs[0].Value)
			require.True(t, commit.Outputs[0].ScriptPublicKey.Equal(commitResult.Script.ScriptPublicKey))
			require.Len(t, commit.Outputs, 2)
			require.Equal(t, 10*sompiPerKaspa-DefaultInscriptionAmount-commitResult.Transactions[0].Fee(),
				commit.Outputs[1].Value)
			verifySchnorrInput(t, keyPair, commit, 0)

			pending, err := flow.PendingCommits()
			require.NoError(t, err)
			require.Equal(t, []*JournalEntry{{
				CommitTransactionID: commitResult.CommitTransactionID.String(),
				OutputIndex:         0,
				Amount:              DefaultInscriptionAmount,
				RedeemScript:        hex.EncodeToString(commitResult.Script.RedeemScript),
				NetworkID:           "mainnet",
				CreatedAt:           testNow,
			}}, pending)

			revealResult, err := flow.Reveal(commitResult.CommitTransactionID, nil)
			require.NoError(t, err)
			require.Len(t, revealResult.Transactions, 1)
			require.Equal(t, inscription, revealResult.Script.Inscription)

			revealTransaction := revealResult.Transactions[0]
			require.True(t, revealTransaction.IsFullySigned())
			require.True(t, revealResult.RevealTransactionID.Equal(revealTransaction.ID()))

			reveal := revealTransaction.Transaction()
			require.Len(t, reveal.Inputs, 1)
			require.Equal(t, *externalapi.NewDomainOutpoint(commitResult.CommitTransactionID, 0),
				reveal.Inputs[0].PreviousOutpoint)
			require.True(t, bytes.HasSuffix(reveal.Inputs[0].SignatureScript, commitResult.Script.RedeemScript))
			verifySchnorrInput(t, keyPair, reveal, 0)

			require.Len(t, reveal.Outputs, 1)
			require.Equal(t, DefaultInscriptionAmount-revealTransaction.Fee(), reveal.Outputs[0].Value)
			changeScriptPublicKey, err := txscript.PayToAddrScript(flow.Address())
			require.NoError(t, err)
			require.True(t, reveal.Outputs[0].ScriptPublicKey.Equal(changeScriptPublicKey))

			pending, err = flow.PendingCommits()
			require.NoError(t, err)
			require.Len(t, pending, 1)
			require.Equal(t, revealResult.RevealTransactionID.String(), pending[0].RevealTransactionID)
			require.Equal(t, testNow, pending[0].CreatedAt)

			// Revealing again rebuilds the same transaction, with fresh signatures
			rebuilt, err := flow.Reveal(commitResult.CommitTransactionID, nil)
			require.NoError(t, err)
			require.Len(t, rebuilt.Transactions, 1)
			require.True(t, rebuilt.RevealTransactionID.Equal(revealResult.RevealTransactionID))
			require.Equal(t, revealTransaction.Fee(), rebuilt.Transactions[0].Fee())
			rebuiltReveal := rebuilt.Transactions[0].Transaction()
			require.True(t, withoutSignatureScripts(reveal).Equal(withoutSignatureScripts(rebuiltReveal)))
			verifySchnorrInput(t, keyPair, rebuiltReveal, 0)

			require.NoError(t, flow.ConfirmReveal(commitResult.CommitTransactionID))
			pending, err = flow.PendingCommits()
			require.NoError(t, err)
			require.Empty(t, pending)

			_, err = flow.Reveal(commitResult.CommitTransactionID, nil)
			require.True(t, errors.Is(err, ErrCommitNotFound), "unexpected error: %+v", err)
			err = flow.ConfirmReveal(commitResult.CommitTransactionID)
			require.True(t, errors.Is(err, ErrCommitNotFound), "unexpected error: %+v", err)
		})
	}
}

func TestRevealSpendsEntriesWhenCommitCantPayFees(t *testing.T) {
	journal := NewMemoryJournal()
	flow, keyPair := newTestFlow(t, journal)
	inscription, err := Mint("TEST", nil)
	require.NoError(t, err)
	script, err := flow.Script(inscription)
	require.NoError(t, err)

	commitID := testTransactionID(0xcc)
	require.NoError(t, journal.Put(&JournalEntry{
		CommitTransactionID: commitID.String(),
		Amount:              1000,
		RedeemScript:        hex.EncodeToString(script.RedeemScript),
		NetworkID:           "mainnet",
		CreatedAt:           testNow,
	}))

	revealResult, err := flow.Reveal(commitID, flowUTXOs(t, flow, sompiPerKaspa))
	require.NoError(t, err)

	reveal := revealResult.Transactions[len(revealResult.Transactions)-1]
	require.True(t, reveal.IsFullySigned())
	inputs := reveal.Transaction().Inputs
	require.Len(t, inputs, 2)
	require.True(t, inputs[0].PreviousOutpoint.TransactionID.Equal(commitID))
	verifySchnorrInput(t, keyPair, reveal.Transaction(), 0)
	verifySchnorrInput(t, keyPair, reveal.Transaction(), 1)
}

func TestRevealTransactionEncoding(t *testing.T) {
	const (
		revealID  = "976989494334b6f1a25d1978c937cbd819891885edb5e6e2fdbb00f20636933c"
		revealFee = 1713
	)

	journal := NewMemoryJournal()
	flow, keyPair := newTestFlow(t, journal)
	inscription, err := Mint("TEST", nil)
	require.NoError(t, err)
	script, err := flow.Script(inscription)
	require.NoError(t, err)

	commitID := testTransactionID(0xcc)
	require.NoError(t, journal.Put(&JournalEntry{
		CommitTransactionID: commitID.String(),
		Amount:              DefaultInscriptionAmount,
		RedeemScript:        hex.EncodeToString(script.RedeemScript),
		NetworkID:           "mainnet",
		CreatedAt:           testNow,
	}))

	unfilled, err := flow.buildReveal(commitID, nil)
	require.NoError(t, err)
	require.Len(t, unfilled.pendingTransactions, 1)
	pendingTransaction := unfilled.pendingTransactions[0]
	require.Equal(t, []int{0}, pendingTransaction.EmptySignatureInputs())
	require.Equal(t, uint64(revealFee), pendingTransaction.Fee())
	require.Equal(t, uint64(revealFee), pendingTransaction.Mass())

	before := pendingTransaction.Transaction().Clone()
	require.Equal(t, revealID, pendingTransaction.ID().String())
	require.Equal(t, "af9128017072024f0abf1b3c91140f074081478cae475312361e7e489639b1a1",
		consensushashing.TransactionHash(before, false).String())

	encoded, err := json.Marshal(pendingTransaction.RPCTransaction())
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "`+revealID+`",
		"version": 0,
		"inputs": [{
			"previousOutpoint": {"transactionId": "cc00000000000000000000000000000000000000000000000000000000000000", "index": 0},
			"signatureScript": "",
			"sequence": "0",
			"sigOpCount": 1
		}],
		"outputs": [{
			"value": "29998287",
			"scriptPublicKey": {"version": 0, "script": "201b84c5567b126440995d3ed5aaba0565d71e1834604819ff9c17f5e9d5dd078fac"}
		}],
		"lockTime": "0",
		"subnetworkId": "0000000000000000000000000000000000000000",
		"gas": "0",
		"payload": "",
		"mass": "1713"
	}`, string(encoded))

	filled, err := flow.fillRevealInputs(pendingTransaction, unfilled.commitOutpoint, unfilled.redeemScript)
	require.NoError(t, err)
	require.Equal(t, 1, filled)
	require.True(t, pendingTransaction.IsFullySigned())
	require.Equal(t, revealID, pendingTransaction.ID().String())

	after := pendingTransaction.Transaction()
	signatureScript := after.Inputs[0].SignatureScript
	require.Len(t, signatureScript, 155)
	require.Equal(t, byte(txscript.OpData65), signatureScript[0])
	require.Equal(t, append([]byte{txscript.OpPushData1, byte(len(script.RedeemScript))}, script.RedeemScript...),
		signatureScript[66:])
	verifySchnorrInput(t, keyPair, after, 0)

	// Filling touched nothing but the signature script
	require.True(t, withoutSignatureScripts(after).Equal(before))
}

func TestRevealErrors(t *testing.T) {
	journal := NewMemoryJournal()
	flow, _ := newTestFlow(t, journal)
	inscription, err := Mint("TEST", nil)
	require.NoError(t, err)
	script, err := flow.Script(inscription)
	require.NoError(t, err)

	_, err = flow.Reveal(testTransactionID(0x01), nil)
	require.True(t, errors.Is(err, ErrCommitNotFound), "unexpected error: %+v", err)

	otherNetwork := testTransactionID(0x02)
	require.NoError(t, journal.Put(&JournalEntry{
		CommitTransactionID: otherNetwork.String(),
		Amount:              DefaultInscriptionAmount,
		RedeemScript:        hex.EncodeToString(script.RedeemScript),
		NetworkID:           "testnet-10",
	}))
	_, err = flow.Reveal(otherNetwork, nil)
	require.Error(t, err)

	// The entry paying the fees is locked by a script the flow's key can't sign
	foreignRedeemScript := []byte{txscript.OpTrue}
	foreignScript, err := txscript.PayToScriptHashScript(foreignRedeemScript)
	require.NoError(t, err)
	foreignUTXO := generator.NewUTXO(*externalapi.NewDomainOutpoint(testTransactionID(0xee), 0),
		utxo.NewUTXOEntry(sompiPerKaspa, &externalapi.ScriptPublicKey{Script: foreignScript}, false, 1000))
	foreignUTXO.RedeemScript = foreignRedeemScript

	underfunded := testTransactionID(0x03)
	require.NoError(t, journal.Put(&JournalEntry{
		CommitTransactionID: underfunded.String(),
		Amount:              1000,
		RedeemScript:        hex.EncodeToString(script.RedeemScript),
		NetworkID:           "mainnet",
	}))
	_, err = flow.Reveal(underfunded, []*generator.UTXO{foreignUTXO})
	require.Error(t, err)

	// Failed reveals keep their journal entry unmarked
	entry, err := journal.Get(underfunded)
	require.NoError(t, err)
	require.Empty(t, entry.RevealTransactionID)
	err = flow.ConfirmReveal(underfunded)
	require.True(t, errors.Is(err, ErrRevealNotBuilt), "unexpected error: %+v", err)
}

func TestCommitErrors(t *testing.T) {
	journal := NewMemoryJournal()
	flow, _ := newTestFlow(t, journal)
	inscription, err := Mint("TEST", nil)
	require.NoError(t, err)

	_, err = flow.Commit(inscription, flowUTXOs(t, flow, DefaultInscriptionAmount))
	require.True(t, errors.Is(err, generator.ErrInsufficientFunds), "unexpected error: %+v", err)

	_, err = flow.Commit(&Inscription{Protocol: ProtocolName, Operation: OpMint}, flowUTXOs(t, flow, sompiPerKaspa))
	require.Error(t, err)

	pending, err := flow.PendingCommits()
	require.NoError(t, err)
	require.Empty(t, pending)

	_, err = NewFlow(&FlowConfig{Params: &dagconfig.MainnetParams})
	require.Error(t, err)
}

func TestParseCommitTransactionID(t *testing.T) {
	id, err := ParseCommitTransactionID(testTransactionID(0x05).String())
	require.NoError(t, err)
	require.True(t, id.Equal(testTransactionID(0x05)))

	_, err = ParseCommitTransactionID("not hex")
	require.Error(t, err)
}
