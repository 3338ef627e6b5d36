package generator

import (
	"bytes"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/pkg/errors"
)

// UTXO is a spendable output together with what's needed to estimate
// the signature script spending it.
type UTXO struct {
	Outpoint  externalapi.DomainOutpoint
	UTXOEntry externalapi.UTXOEntry

	// RedeemScript is required for outputs paying to a script hash
	RedeemScript []byte

	// recycled is set on change outputs of batch transactions fed back
	// into the generator
	recycled bool
}

// NewUTXO returns a UTXO spending outpoint
func NewUTXO(outpoint externalapi.DomainOutpoint, entry externalapi.UTXOEntry) *UTXO {
	return &UTXO{Outpoint: outpoint, UTXOEntry: entry}
}

// UTXOsFromPairs converts outpoint and UTXO entry pairs, as returned by
// appmessage.RPCUTXOEntriesToUTXOs, to generator UTXOs
func UTXOsFromPairs(pairs []*externalapi.OutpointAndUTXOEntryPair) []*UTXO {
	utxos := make([]*UTXO, len(pairs))
	for i, pair := range pairs {
		utxos[i] = NewUTXO(*pair.Outpoint, pair.UTXOEntry)
	}
	return utxos
}

func (u *UTXO) amount() uint64 {
	return u.UTXOEntry.Amount()
}

func (u *UTXO) validate() error {
	if u.UTXOEntry == nil {
		return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s has no entry", u.Outpoint)
	}
	if u.UTXOEntry.ScriptPublicKey() == nil {
		return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s has no script public key", u.Outpoint)
	}
	if u.amount() > constants.MaxSompi {
		return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s is worth %d sompi, more than the maximum of %d",
			u.Outpoint, u.amount(), constants.MaxSompi)
	}

	isScriptHash := txscript.IsPayToScriptHash(u.UTXOEntry.ScriptPublicKey())
	if !isScriptHash {
		if len(u.RedeemScript) > 0 {
			return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s has a redeem script but "+
				"doesn't pay to a script hash", u.Outpoint)
		}
		return nil
	}

	if len(u.RedeemScript) == 0 {
		return errors.Wrapf(ErrInvalidGeneratorInput, "UTXO %s pays to a script hash "+
			"but has no redeem script", u.Outpoint)
	}
	expectedScript, err := txscript.PayToScriptHashScript(u.RedeemScript)
	if err != nil {
		return err
	}
	if !bytes.Equal(expectedScript, u.UTXOEntry.ScriptPublicKey().Script) {
		return errors.Wrapf(ErrInvalidGeneratorInput, "the redeem script of UTXO %s "+
			"doesn't match its script public key", u.Outpoint)
	}
	return nil
}
