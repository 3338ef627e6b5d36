// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error. This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// parseShortForm parses a string into a script as follows:
//   - Opcodes other than the push opcodes and unknown are present as
//     either OP_NAME or just NAME
//   - Plain numbers are made into push operations
//   - Numbers beginning with 0x are inserted into the []byte as-is (so
//     0x14 is OP_DATA_20)
//   - Single quoted strings are pushed as data
//   - Anything else is an error
func parseShortForm(script string) ([]byte, error) {
	shortFormOps := make(map[string]byte)
	for opcodeName, opcodeValue := range OpcodeByName {
		if strings.Contains(opcodeName, "OP_UNKNOWN") {
			continue
		}
		shortFormOps[opcodeName] = opcodeValue

		// The opcodes named OP_# can't have the OP_ prefix stripped or
		// they would conflict with the plain numbers.
		if (opcodeName == "OP_FALSE" || opcodeName == "OP_TRUE") ||
			(opcodeValue != Op0 && (opcodeValue < Op1 || opcodeValue > Op16)) {

			shortFormOps[strings.TrimPrefix(opcodeName, "OP_")] = opcodeValue
		}
	}

	builder := NewScriptBuilder()
	for _, tok := range strings.Fields(script) {
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
		} else if strings.HasPrefix(tok, "0x") {
			bts, err := hex.DecodeString(tok[2:])
			if err != nil {
				return nil, err
			}
			// Concatenate the bytes manually since the test code
			// intentionally creates scripts that are malformed.
			builder.script = append(builder.script, bts...)
		} else if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
			builder.AddFullData([]byte(tok[1 : len(tok)-1]))
		} else if opcode, ok := shortFormOps[tok]; ok {
			builder.AddOp(opcode)
		} else {
			return nil, errors.Errorf("bad token %q", tok)
		}
	}
	return builder.Script()
}

// mustParseShortForm parses the passed short form script and returns the
// resulting bytes. It panics if an error occurs. This is only used in the
// tests as a helper since the only way it can fail is if there is an error in
// the test source code.
func mustParseShortForm(script string) []byte {
	s, err := parseShortForm(script)
	if err != nil {
		panic("invalid short form script in test source: err " +
			err.Error() + ", script: " + script)
	}

	return s
}

const (
	zeroPublicKeyHex  = "0000000000000000000000000000000000000000000000000000000000000000"
	ecdsaPublicKeyHex = "02" + zeroPublicKeyHex
	redeemScriptHash  = "ce57216285125006ec18197bd8184221cefa559bb0798410d99a5bba5b07cd1d"
)

// bogusAddress implements the util.Address interface so the tests can ensure
// unsupported address types are handled properly.
type bogusAddress struct{}

func (b *bogusAddress) String() string { return "" }
func (b *bogusAddress) EncodeAddress() string { return "" }
func (b *bogusAddress) ScriptAddress() []byte { return nil }
func (b *bogusAddress) Prefix() util.Bech32Prefix { return util.Bech32PrefixUnknown }
func (b *bogusAddress) Version() util.AddressVersion { return 0xff }
func (b *bogusAddress) IsForPrefix(prefix util.Bech32Prefix) bool { return true }
func (b *bogusAddress) Equal(other util.Address) bool { return false }

// TestPayToAddrScript ensures the PayToAddrScript function generates the
// correct scripts for the various types of addresses.
func TestPayToAddrScript(t *testing.T) {
	t.Parallel()

	p2pkMain, err := util.DecodeAddress(
		"kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e", util.Bech32PrefixKaspa)
	if err != nil {
		t.Fatalf("Unable to decode public key address: %v", err)
	}
	p2pkECDSA, err := util.NewAddressPublicKeyECDSA(hexToBytes(ecdsaPublicKeyHex), util.Bech32PrefixKaspaTest)
	if err != nil {
		t.Fatalf("Unable to create ECDSA public key address: %v", err)
	}
	p2shMain, err := util.NewAddressScriptHash([]byte{Op1}, util.Bech32PrefixKaspa)
	if err != nil {
		t.Fatalf("Unable to create script hash address: %v", err)
	}

	tests := []struct {
		in             util.Address
		expectedScript string
		err            error
	}{
		{p2pkMain, "DATA_32 0x" + zeroPublicKeyHex + " CHECKSIG", nil},
		{p2pkECDSA, "DATA_33 0x" + ecdsaPublicKeyHex + " CHECKSIGECDSA", nil},
		{p2shMain, "BLAKE2B DATA_32 0x" + redeemScriptHash + " EQUAL", nil},

		// Supported address types with nil pointers.
		{(*util.AddressPublicKey)(nil), "", ErrUnsupportedAddress},
		{(*util.AddressPublicKeyECDSA)(nil), "", ErrUnsupportedAddress},
		{(*util.AddressScriptHash)(nil), "", ErrUnsupportedAddress},

		// Unsupported address type.
		{&bogusAddress{}, "", ErrUnsupportedAddress},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		scriptPublicKey, err := PayToAddrScript(test.in)
		if !errors.Is(err, test.err) {
			t.Errorf("PayToAddrScript #%d unexpected error - got %v, want %v", i, err, test.err)
			continue
		}
		if test.err != nil {
			continue
		}

		expectedScript := mustParseShortForm(test.expectedScript)
		if !bytes.Equal(scriptPublicKey.Script, expectedScript) {
			t.Errorf("PayToAddrScript #%d got: %x\nwant: %x", i, scriptPublicKey.Script, expectedScript)
			continue
		}
		if scriptPublicKey.Version != 0 {
			t.Errorf("PayToAddrScript #%d got version: %d, want 0", i, scriptPublicKey.Version)
		}
	}
}

func TestPayToScriptHashScript(t *testing.T) {
	t.Parallel()

	script, err := PayToScriptHashScript([]byte{Op1})
	if err != nil {
		t.Fatalf("PayToScriptHashScript: %v", err)
	}
	expected := hexToBytes("aa20" + redeemScriptHash + "87")
	if !bytes.Equal(script, expected) {
		t.Fatalf("PayToScriptHashScript got: %x\nwant: %x", script, expected)
	}
	if !IsPayToScriptHash(&externalapi.ScriptPublicKey{Script: script}) {
		t.Fatalf("IsPayToScriptHash returned false for a pay-to-script-hash script")
	}
}

func TestEncodePayToScriptHashSignatureScript(t *testing.T) {
	t.Parallel()

	redeemScript := bytes.Repeat([]byte{OpNop}, 100)
	signature := []byte{OpData1 + 1, 0xaa, 0xbb}

	signatureScript, err := EncodePayToScriptHashSignatureScript(redeemScript, signature)
	if err != nil {
		t.Fatalf("EncodePayToScriptHashSignatureScript: %v", err)
	}

	expected := append([]byte{OpData1 + 1, 0xaa, 0xbb, OpPushData1, 100}, redeemScript...)
	if !bytes.Equal(signatureScript, expected) {
		t.Fatalf("got: %x\nwant: %x", signatureScript, expected)
	}

	tooLarge := make([]byte, MaxScriptElementSize+1)
	_, err = EncodePayToScriptHashSignatureScript(tooLarge, signature)
	if !errors.Is(err, ErrScriptBuilder) {
		t.Fatalf("expected ErrScriptBuilder for an oversized redeem script, got %v", err)
	}
}

// TestExtractScriptPubKeyAddress ensures that extracting the type and
// address from script public keys works as intended.
func TestExtractScriptPubKeyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		version uint16
		address string
		class   ScriptClass
		err     error
	}{
		{
			name:    "pay to pubkey",
			script:  "DATA_32 0x" + zeroPublicKeyHex + " CHECKSIG",
			address: "kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e",
			class:   PubKeyTy,
		},
		{
			name:   "pay to script hash",
			script: "BLAKE2B DATA_32 0x" + redeemScriptHash + " EQUAL",
			class:  ScriptHashTy,
		},
		{
			name:   "pay to pubkey ECDSA",
			script: "DATA_33 0x" + ecdsaPublicKeyHex + " CHECKSIGECDSA",
			class:  PubKeyECDSATy,
		},
		{
			name:   "pubkey with wrong checksig opcode",
			script: "DATA_32 0x" + zeroPublicKeyHex + " CHECKSIGECDSA",
			class:  NonStandardTy,
		},
		{
			name:   "truncated push",
			script: "DATA_32 0x0000",
			class:  NonStandardTy,
		},
		{
			name:   "empty script",
			script: "",
			class:  NonStandardTy,
		},
		{
			name:    "unknown version",
			script:  "DATA_32 0x" + zeroPublicKeyHex + " CHECKSIG",
			version: 1,
			class:   NonStandardTy,
			err:     ErrUnsupportedScriptVersion,
		},
	}

	for _, test := range tests {
		scriptPublicKey := &externalapi.ScriptPublicKey{Script: mustParseShortForm(test.script), Version: test.version}
		class, address, err := ExtractScriptPubKeyAddress(scriptPublicKey, util.Bech32PrefixKaspa)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: unexpected error - got %v, want %v", test.name, err, test.err)
			continue
		}
		if class != test.class {
			t.Errorf("%s: wrong class - got %s, want %s", test.name, class, test.class)
			continue
		}
		if class == NonStandardTy {
			if address != nil {
				t.Errorf("%s: expected no address for a nonstandard script, got %s", test.name, address)
			}
			continue
		}
		if address == nil {
			t.Errorf("%s: expected an address", test.name)
			continue
		}
		if test.address != "" && address.EncodeAddress() != test.address {
			t.Errorf("%s: wrong address - got %s, want %s", test.name, address, test.address)
			continue
		}

		// The extracted address must pay back to the very same script.
		roundTrip, err := PayToAddrScript(address)
		if err != nil {
			t.Errorf("%s: PayToAddrScript: %v", test.name, err)
			continue
		}
		if !roundTrip.Equal(scriptPublicKey) {
			t.Errorf("%s: PayToAddrScript(ExtractScriptPubKeyAddress) = %x, want %x",
				test.name, roundTrip.Script, scriptPublicKey.Script)
		}
	}
}

// TestScriptClass ensures the scripts have the expected class.
func TestScriptClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		class  ScriptClass
	}{
		{"pay pubkey", "DATA_32 0x" + zeroPublicKeyHex + " CHECKSIG", PubKeyTy},
		{"pay pubkey ECDSA", "DATA_33 0x" + ecdsaPublicKeyHex + " CHECKSIGECDSA", PubKeyECDSATy},
		{"P2SH", "BLAKE2B DATA_32 0x" + redeemScriptHash + " EQUAL", ScriptHashTy},
		{"P2SH with 20 byte hash", "BLAKE2B DATA_20 0x433ec2ac1ffa1b7b7d027f564529c57197f9ae88 EQUAL",
			NonStandardTy},
		{"nulldata", "RETURN 0", NonStandardTy},
		{"multisig", "1 DATA_32 0x" + zeroPublicKeyHex + " 1 CHECKMULTISIG", NonStandardTy},
		{"doesn't parse", "DATA_5 0x01020304", NonStandardTy},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		class := GetScriptClass(script)
		if class != test.class {
			t.Errorf("%s: expected %s got %s (script %x)", test.name, test.class, class, script)
		}
	}
}

// TestStringifyClass ensures the script class string returns the expected
// string for each script class.
func TestStringifyClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class    ScriptClass
		stringed string
	}{
		{NonStandardTy, "nonstandard"},
		{PubKeyTy, "pubkey"},
		{PubKeyECDSATy, "pubkeyecdsa"},
		{ScriptHashTy, "scripthash"},
		{ScriptClass(4), "Invalid"},
		{ScriptClass(255), "Invalid"},
	}

	for _, test := range tests {
		typeString := test.class.String()
		if typeString != test.stringed {
			t.Errorf("%d: got %#q, want %#q", test.class, typeString, test.stringed)
		}
	}
}

func TestMultiSigRedeemScript(t *testing.T) {
	t.Parallel()

	key1 := bytes.Repeat([]byte{0x01}, 32)
	key2 := bytes.Repeat([]byte{0x02}, 32)

	script, err := MultiSigRedeemScript([][]byte{key1, key2}, 2, false)
	if err != nil {
		t.Fatalf("MultiSigRedeemScript: %v", err)
	}
	expected := mustParseShortForm("2 DATA_32 0x" + hex.EncodeToString(key1) +
		" DATA_32 0x" + hex.EncodeToString(key2) + " 2 CHECKMULTISIG")
	if !bytes.Equal(script, expected) {
		t.Fatalf("got: %x\nwant: %x", script, expected)
	}

	_, err = MultiSigRedeemScript([][]byte{key1}, 2, false)
	if !errors.Is(err, ErrScriptBuilder) {
		t.Fatalf("expected ErrScriptBuilder when requiring more signatures than keys, got %v", err)
	}
}

func TestParseScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		valid  bool
	}{
		{"empty", nil, true},
		{"small ints", []byte{Op0, Op1, Op16}, true},
		{"data push", []byte{OpData1 + 1, 0x01, 0x02}, true},
		{"truncated data push", []byte{OpData1 + 2, 0x01, 0x02}, false},
		{"pushdata1 without length", []byte{OpPushData1}, false},
		{"pushdata1 truncated", []byte{OpPushData1, 0x03, 0x01}, false},
		{"pushdata2", []byte{OpPushData2, 0x01, 0x00, 0xff}, true},
		{"pushdata2 short length", []byte{OpPushData2, 0x01}, false},
		{"pushdata4 truncated", []byte{OpPushData4, 0x02, 0x00, 0x00, 0x00, 0x01}, false},
		{"unknown opcodes parse", []byte{0xfe, 0xff}, true},
	}

	for _, test := range tests {
		_, err := parseScript(test.script)
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
		if !test.valid && !errors.Is(err, ErrMalformedScript) {
			t.Errorf("%s: expected ErrMalformedScript, got %v", test.name, err)
		}
	}
}

func TestDisasmString(t *testing.T) {
	t.Parallel()

	script := mustParseShortForm("BLAKE2B DATA_32 0x" + redeemScriptHash + " EQUAL")
	expected := "OP_BLAKE2B " + redeemScriptHash + " OP_EQUAL"
	if disasm := DisasmString(script); disasm != expected {
		t.Errorf("got %q, want %q", disasm, expected)
	}

	if disasm := DisasmString([]byte{OpCheckSig, OpData1 + 1, 0x01}); disasm != "OP_CHECKSIG [error]" {
		t.Errorf("unexpected disassembly of a truncated script: %q", disasm)
	}
}
