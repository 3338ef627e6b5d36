// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockDAG.
const (
	NonStandardTy  ScriptClass = iota // None of the recognized forms.
	PubKeyTy                          // Pay to pubkey.
	PubKeyECDSATy                     // Pay to pubkey ECDSA.
	ScriptHashTy                      // Pay to script hash.
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyTy:      "pubkey",
	PubKeyECDSATy: "pubkeyecdsa",
	ScriptHashTy:  "scripthash",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// isPayToPubKey returns true if the script passed is a pay-to-pubkey
// transaction, false otherwise.
func isPayToPubKey(pops []parsedOpcode) bool {
	return len(pops) == 2 &&
		pops[0].opcode.value == OpData32 &&
		pops[1].opcode.value == OpCheckSig
}

// isPayToPubKeyECDSA returns true if the script passed is an ECDSA
// pay-to-pubkey transaction, false otherwise.
func isPayToPubKeyECDSA(pops []parsedOpcode) bool {
	return len(pops) == 2 &&
		pops[0].opcode.value == OpData33 &&
		pops[1].opcode.value == OpCheckSigECDSA
}

// isScriptHash returns true if the script passed is a pay-to-script-hash
// transaction, false otherwise.
func isScriptHash(pops []parsedOpcode) bool {
	return len(pops) == 3 &&
		pops[0].opcode.value == OpBlake2b &&
		pops[1].opcode.value == OpData32 &&
		pops[2].opcode.value == OpEqual
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format, false otherwise.
func IsPayToScriptHash(scriptPublicKey *externalapi.ScriptPublicKey) bool {
	pops, err := parseScript(scriptPublicKey.Script)
	if err != nil {
		return false
	}
	return isScriptHash(pops)
}

// typeOfScript returns the type of the script being inspected from the known
// standard types.
func typeOfScript(pops []parsedOpcode) ScriptClass {
	switch {
	case isPayToPubKey(pops):
		return PubKeyTy
	case isPayToPubKeyECDSA(pops):
		return PubKeyECDSATy
	case isScriptHash(pops):
		return ScriptHashTy
	}
	return NonStandardTy
}

// GetScriptClass returns the class of the script passed.
//
// NonStandardTy will be returned when the script does not parse.
func GetScriptClass(script []byte) ScriptClass {
	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy
	}
	return typeOfScript(pops)
}

// payToPubKeyScript creates a new script to pay a transaction
// output to a 32-byte pubkey.
func payToPubKeyScript(pubKey []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddData(pubKey).
		AddOp(OpCheckSig).
		Script()
}

// payToPubKeyScriptECDSA creates a new script to pay a transaction
// output to a 33-byte pubkey.
func payToPubKeyScriptECDSA(pubKey []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddData(pubKey).
		AddOp(OpCheckSigECDSA).
		Script()
}

// payToScriptHashScript creates a new script to pay a transaction output to a
// script hash. It is expected that the input is a valid hash.
func payToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OpBlake2b).
		AddData(scriptHash).
		AddOp(OpEqual).
		Script()
}

// PayToAddrScript creates a new script to pay a transaction output to a the
// specified address.
func PayToAddrScript(addr util.Address) (*externalapi.ScriptPublicKey, error) {
	const nilAddrErrStr = "unable to generate payment script for nil address"
	var script []byte
	var err error

	switch addr := addr.(type) {
	case *util.AddressPublicKey:
		if addr == nil {
			return nil, errors.Wrap(ErrUnsupportedAddress, nilAddrErrStr)
		}
		script, err = payToPubKeyScript(addr.ScriptAddress())

	case *util.AddressPublicKeyECDSA:
		if addr == nil {
			return nil, errors.Wrap(ErrUnsupportedAddress, nilAddrErrStr)
		}
		script, err = payToPubKeyScriptECDSA(addr.ScriptAddress())

	case *util.AddressScriptHash:
		if addr == nil {
			return nil, errors.Wrap(ErrUnsupportedAddress, nilAddrErrStr)
		}
		script, err = payToScriptHashScript(addr.ScriptAddress())

	default:
		return nil, errors.Wrapf(ErrUnsupportedAddress, "unable to generate payment script for "+
			"unsupported address type %T", addr)
	}
	if err != nil {
		return nil, err
	}

	return &externalapi.ScriptPublicKey{Script: script, Version: constants.MaxScriptPublicKeyVersion}, nil
}

// PayToScriptHashScript takes a script and returns an equivalent pay-to-script-hash script
func PayToScriptHashScript(redeemScript []byte) ([]byte, error) {
	return payToScriptHashScript(util.HashBlake2b(redeemScript))
}

// EncodePayToScriptHashSignatureScript generates a signature script that fits a pay-to-script-hash script.
// signature is the part of the redeem script's signature script preceding the redeem script itself.
func EncodePayToScriptHashSignatureScript(redeemScript []byte, signature []byte) ([]byte, error) {
	redeemScriptAsData, err := NewScriptBuilder().AddData(redeemScript).Script()
	if err != nil {
		return nil, err
	}
	signatureScript := make([]byte, len(signature)+len(redeemScriptAsData))
	copy(signatureScript, signature)
	copy(signatureScript[len(signature):], redeemScriptAsData)
	return signatureScript, nil
}

// ExtractScriptPubKeyAddress returns the type of script and its address.
// A nil address is returned, together with NonStandardTy, for scripts that
// aren't of a standard form.
func ExtractScriptPubKeyAddress(scriptPubKey *externalapi.ScriptPublicKey, prefix util.Bech32Prefix) (
	ScriptClass, util.Address, error) {

	if scriptPubKey.Version > constants.MaxScriptPublicKeyVersion {
		return NonStandardTy, nil, errors.Wrapf(ErrUnsupportedScriptVersion, "version %d", scriptPubKey.Version)
	}

	// No valid address if the script doesn't parse.
	pops, err := parseScript(scriptPubKey.Script)
	if err != nil {
		return NonStandardTy, nil, nil
	}

	scriptClass := typeOfScript(pops)
	switch scriptClass {
	case PubKeyTy:
		// A pay-to-pubkey script is of the form:
		//  <32-byte pubkey> OP_CHECKSIG
		// Therefore the pubkey is the first item on the stack.
		addr, err := util.NewAddressPublicKey(pops[0].data, prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil

	case PubKeyECDSATy:
		// A pay-to-pubkey-ECDSA script is of the form:
		//  <33-byte pubkey> OP_CHECKSIGECDSA
		addr, err := util.NewAddressPublicKeyECDSA(pops[0].data, prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil

	case ScriptHashTy:
		// A pay-to-script-hash script is of the form:
		//  OP_BLAKE2B <scripthash> OP_EQUAL
		// Therefore the script hash is the 2nd item on the stack.
		addr, err := util.NewAddressScriptHashFromHash(pops[1].data, prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil
	}

	// Don't attempt to extract addresses or required signatures for
	// nonstandard transactions.
	return NonStandardTy, nil, nil
}

// MultiSigRedeemScript returns a redeem script requiring minimumSignatures of
// the given public keys. The keys are 32-byte Schnorr keys, or 33-byte
// compressed keys when ecdsa is set.
func MultiSigRedeemScript(publicKeys [][]byte, minimumSignatures int, ecdsa bool) ([]byte, error) {
	if minimumSignatures < 1 || minimumSignatures > len(publicKeys) {
		return nil, errors.Wrapf(ErrScriptBuilder, "cannot require %d signatures out of %d keys",
			minimumSignatures, len(publicKeys))
	}

	scriptBuilder := NewScriptBuilder()
	scriptBuilder.AddInt64(int64(minimumSignatures))
	for _, publicKey := range publicKeys {
		scriptBuilder.AddData(publicKey)
	}
	scriptBuilder.AddInt64(int64(len(publicKeys)))

	if ecdsa {
		scriptBuilder.AddOp(OpCheckMultiSigECDSA)
	} else {
		scriptBuilder.AddOp(OpCheckMultiSig)
	}

	return scriptBuilder.Script()
}
