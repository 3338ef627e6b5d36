package krc20

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// Script is the pay-to-script-hash lock carrying an inscription. The
// commit transaction pays to Address, and the reveal spends it with
// RedeemScript.
type Script struct {
	Inscription     *Inscription
	RedeemScript    []byte
	ScriptPublicKey *externalapi.ScriptPublicKey
	Address         *util.AddressScriptHash
}

// NewScript returns the script inscribing inscription, spendable by the
// owner of the x-only publicKey
func NewScript(publicKey []byte, inscription *Inscription, prefix util.Bech32Prefix) (*Script, error) {
	content, err := inscription.Content()
	if err != nil {
		return nil, err
	}
	redeemScript, err := txscript.InscriptionRedeemScript(publicKey, Protocol, content)
	if err != nil {
		return nil, err
	}
	return newScriptFromRedeemScript(inscription, redeemScript, prefix)
}

func newScriptFromRedeemScript(inscription *Inscription, redeemScript []byte, prefix util.Bech32Prefix) (
	*Script, error) {

	address, err := util.NewAddressScriptHash(redeemScript, prefix)
	if err != nil {
		return nil, err
	}
	scriptPublicKey, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, err
	}
	return &Script{
		Inscription:     inscription,
		RedeemScript:    redeemScript,
		ScriptPublicKey: scriptPublicKey,
		Address:         address,
	}, nil
}

// ParseScript recovers the Script of a redeem script built by NewScript
func ParseScript(redeemScript []byte, prefix util.Bech32Prefix) (*Script, error) {
	_, protocol, content, err := txscript.ExtractInscription(redeemScript)
	if err != nil {
		return nil, err
	}
	if protocol != Protocol {
		return nil, errors.Wrapf(ErrInvalidInscription, "unexpected envelope protocol %q", protocol)
	}
	inscription, err := ParseInscription(content)
	if err != nil {
		return nil, err
	}
	return newScriptFromRedeemScript(inscription, redeemScript, prefix)
}
