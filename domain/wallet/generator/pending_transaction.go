package generator

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/krcwallet/kaspacore/app/appmessage"
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/consensushashing"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// Kind tells batch transactions, which consolidate UTXOs into the change
// address, from the final transaction that makes the payments
type Kind int

// Kinds of generated transactions
const (
	KindBatch Kind = iota
	KindFinal
)

func (kind Kind) String() string {
	switch kind {
	case KindBatch:
		return "batch"
	case KindFinal:
		return "final"
	default:
		return "unknown"
	}
}

// PendingTransaction is a generated transaction waiting for its signatures
type PendingTransaction struct {
	transaction   *externalapi.DomainTransaction
	utxos         []*UTXO
	fee           uint64
	mass          uint64
	kind          Kind
	paymentAmount uint64
	changeAmount  uint64
	prefix        util.Bech32Prefix

	sighashReusedValues *consensushashing.SighashReusedValues
}

func newPendingTransaction(transaction *externalapi.DomainTransaction, utxos []*UTXO, fee, mass uint64,
	kind Kind, paymentAmount, changeAmount uint64, prefix util.Bech32Prefix) *PendingTransaction {

	transaction.Mass = mass
	return &PendingTransaction{
		transaction:         transaction,
		utxos:               utxos,
		fee:                 fee,
		mass:                mass,
		kind:                kind,
		paymentAmount:       paymentAmount,
		changeAmount:        changeAmount,
		prefix:              prefix,
		sighashReusedValues: &consensushashing.SighashReusedValues{},
	}
}

// Transaction returns the underlying transaction. Signing modifies it in place.
func (p *PendingTransaction) Transaction() *externalapi.DomainTransaction {
	return p.transaction
}

// ID returns the transaction ID, which doesn't depend on signatures
func (p *PendingTransaction) ID() *externalapi.DomainTransactionID {
	return consensushashing.TransactionID(p.transaction)
}

// Fee returns the fee the transaction pays, including dust change
func (p *PendingTransaction) Fee() uint64 {
	return p.fee
}

// Mass returns the estimated overall mass of the signed transaction
func (p *PendingTransaction) Mass() uint64 {
	return p.mass
}

// Kind returns whether the transaction is a batch or the final transaction
func (p *PendingTransaction) Kind() Kind {
	return p.kind
}

// PaymentAmount returns the sum of the payment outputs. It's zero for
// batch transactions.
func (p *PendingTransaction) PaymentAmount() uint64 {
	return p.paymentAmount
}

// ChangeAmount returns the value of the change output, or zero if the
// transaction has none
func (p *PendingTransaction) ChangeAmount() uint64 {
	return p.changeAmount
}

// UTXOs returns the UTXOs spent by the transaction, in input order
func (p *PendingTransaction) UTXOs() []*UTXO {
	utxos := make([]*UTXO, len(p.utxos))
	copy(utxos, p.utxos)
	return utxos
}

// Sign signs every pay-to-pubkey input that has no signature script yet.
// Inputs paying to a script hash are left for CreateInputSignature and
// FillInput.
func (p *PendingTransaction) Sign(keys []*secp256k1.SchnorrKeyPair) error {
	keysByPublicKey := make(map[string]*secp256k1.SchnorrKeyPair, len(keys))
	for _, key := range keys {
		publicKey, err := key.SchnorrPublicKey()
		if err != nil {
			return err
		}
		serializedPublicKey, err := publicKey.Serialize()
		if err != nil {
			return err
		}
		keysByPublicKey[string(serializedPublicKey[:])] = key
	}

	return p.signInputs(txscript.PubKeyTy, func(index int, publicKey []byte) ([]byte, error) {
		key, ok := keysByPublicKey[string(publicKey)]
		if !ok {
			return nil, errors.Wrapf(ErrSigningKeyNotFound, "no Schnorr key for input %d", index)
		}
		return p.CreateInputSignature(index, key)
	})
}

// SignECDSA signs every pay-to-pubkey-ECDSA input that has no signature
// script yet
func (p *PendingTransaction) SignECDSA(keys []*secp256k1.ECDSAPrivateKey) error {
	keysByPublicKey := make(map[string]*secp256k1.ECDSAPrivateKey, len(keys))
	for _, key := range keys {
		publicKey, err := key.ECDSAPublicKey()
		if err != nil {
			return err
		}
		serializedPublicKey, err := publicKey.Serialize()
		if err != nil {
			return err
		}
		keysByPublicKey[string(serializedPublicKey[:])] = key
	}

	return p.signInputs(txscript.PubKeyECDSATy, func(index int, publicKey []byte) ([]byte, error) {
		key, ok := keysByPublicKey[string(publicKey)]
		if !ok {
			return nil, errors.Wrapf(ErrSigningKeyNotFound, "no ECDSA key for input %d", index)
		}
		return p.CreateInputSignatureECDSA(index, key)
	})
}

func (p *PendingTransaction) signInputs(class txscript.ScriptClass,
	sign func(index int, publicKey []byte) ([]byte, error)) error {

	for i, input := range p.transaction.Inputs {
		if len(input.SignatureScript) > 0 {
			continue
		}
		inputClass, address, err := txscript.ExtractScriptPubKeyAddress(
			p.utxos[i].UTXOEntry.ScriptPublicKey(), p.prefix)
		if err != nil {
			return err
		}
		if inputClass != class || address == nil {
			continue
		}

		signatureScript, err := sign(i, address.ScriptAddress())
		if err != nil {
			return err
		}
		input.SignatureScript = signatureScript
	}
	log.Tracef("Signed transaction %s, %d inputs left unsigned", p.ID(), len(p.EmptySignatureInputs()))
	return nil
}

// CreateInputSignature returns the pushed SigHashAll Schnorr signature of
// input index. For pay-to-pubkey inputs it is the whole signature script.
func (p *PendingTransaction) CreateInputSignature(index int, key *secp256k1.SchnorrKeyPair) ([]byte, error) {
	err := p.checkInputIndex(index)
	if err != nil {
		return nil, err
	}
	return txscript.SignatureScript(p.transaction, index, consensushashing.SigHashAll, key, p.sighashReusedValues)
}

// CreateInputSignatureECDSA is CreateInputSignature for ECDSA keys
func (p *PendingTransaction) CreateInputSignatureECDSA(index int, key *secp256k1.ECDSAPrivateKey) ([]byte, error) {
	err := p.checkInputIndex(index)
	if err != nil {
		return nil, err
	}
	return txscript.SignatureScriptECDSA(p.transaction, index, consensushashing.SigHashAll, key, p.sighashReusedValues)
}

// FillInput sets the signature script of input index
func (p *PendingTransaction) FillInput(index int, signatureScript []byte) error {
	err := p.checkInputIndex(index)
	if err != nil {
		return err
	}
	input := p.transaction.Inputs[index]
	input.SignatureScript = make([]byte, len(signatureScript))
	copy(input.SignatureScript, signatureScript)
	return nil
}

// EmptySignatureInputs returns the indexes of the inputs without a
// signature script
func (p *PendingTransaction) EmptySignatureInputs() []int {
	var indexes []int
	for i, input := range p.transaction.Inputs {
		if len(input.SignatureScript) == 0 {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// IsFullySigned returns whether every input has a signature script
func (p *PendingTransaction) IsFullySigned() bool {
	return len(p.EmptySignatureInputs()) == 0
}

// RPCTransaction returns the transaction in its submittable form
func (p *PendingTransaction) RPCTransaction() *appmessage.RPCTransaction {
	return appmessage.DomainTransactionToRPCTransaction(p.transaction)
}

func (p *PendingTransaction) checkInputIndex(index int) error {
	if index < 0 || index >= len(p.transaction.Inputs) {
		return errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			index, len(p.transaction.Inputs))
	}
	return nil
}
