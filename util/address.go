// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/krcwallet/kaspacore/util/bech32"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrDecode is returned, wrapped with the failure details, when an
	// address string cannot be decoded.
	ErrDecode = bech32.ErrDecode

	// ErrUnknownAddressType describes an error where an address can not
	// be decoded as a specific address type due to the string encoding
	// beginning with an unknown version byte.
	ErrUnknownAddressType = errors.Wrap(ErrDecode, "unknown address type")
)

// AddressVersion is the first byte of an encoded address payload. It
// selects how the rest of the payload is interpreted.
type AddressVersion byte

const (
	// PubKey addresses always have the version byte set to 0.
	PubKey AddressVersion = 0x00

	// PubKeyECDSA addresses always have the version byte set to 1.
	PubKeyECDSA AddressVersion = 0x01

	// ScriptHash addresses always have the version byte set to 8.
	ScriptHash AddressVersion = 0x08
)

const (
	// PublicKeySize is the public key size for a schnorr public key
	PublicKeySize = 32

	// PublicKeySizeECDSA is the public key size for an ECDSA public key
	PublicKeySizeECDSA = 33

	// ScriptHashSize is the size of a BLAKE2b-256 script hash
	ScriptHashSize = blake2b.Size256
)

// Bech32Prefix is the human-readable prefix for a Bech32 address.
type Bech32Prefix int

// Constants that define Bech32 address prefixes. Every network is assigned
// a unique prefix.
const (
	// Unknown/Erroneous prefix
	Bech32PrefixUnknown Bech32Prefix = iota

	// Prefix for the main network.
	Bech32PrefixKaspa

	// Prefix for the dev network.
	Bech32PrefixKaspaDev

	// Prefix for the test network.
	Bech32PrefixKaspaTest

	// Prefix for the simulation network.
	Bech32PrefixKaspaSim

	// Prefixes used by tests. Payload length checks do not apply to them.
	Bech32PrefixA
	Bech32PrefixB
)

// Map from strings to Bech32 address prefix constants for parsing purposes.
var stringsToBech32Prefixes = map[string]Bech32Prefix{
	"kaspa":     Bech32PrefixKaspa,
	"kaspadev":  Bech32PrefixKaspaDev,
	"kaspatest": Bech32PrefixKaspaTest,
	"kaspasim":  Bech32PrefixKaspaSim,
	"a":         Bech32PrefixA,
	"b":         Bech32PrefixB,
}

// ParsePrefix attempts to parse a Bech32 address prefix.
func ParsePrefix(prefixString string) (Bech32Prefix, error) {
	prefix, ok := stringsToBech32Prefixes[prefixString]
	if !ok {
		return Bech32PrefixUnknown, errors.Wrapf(ErrDecode, "could not parse prefix %s", prefixString)
	}

	return prefix, nil
}

// Converts from Bech32 address prefixes to their string values
func (prefix Bech32Prefix) String() string {
	for key, value := range stringsToBech32Prefixes {
		if prefix == value {
			return key
		}
	}

	return ""
}

func (prefix Bech32Prefix) isTestPrefix() bool {
	return prefix == Bech32PrefixA || prefix == Bech32PrefixB
}

// encodeAddress returns a human-readable payment address for the given
// prefix, version and payload.
func encodeAddress(prefix Bech32Prefix, payload []byte, version AddressVersion) string {
	return bech32.Encode(prefix.String(), payload, byte(version))
}

// Address is an interface type for any type of destination a transaction
// output may spend to. This includes pay-to-pubkey (P2PK)
// and pay-to-script-hash (P2SH). Address is designed to be generic
// enough that other kinds of addresses may be added in the future without
// changing the decoding and encoding API.
type Address interface {
	// String returns the string encoding of the transaction output
	// destination.
	//
	// Please note that String differs subtly from EncodeAddress: String
	// will return the value as a string without any conversion, while
	// EncodeAddress may convert destination types (for example,
	// converting pubkeys to P2PK addresses) before encoding as a
	// payment address string.
	String() string

	// EncodeAddress returns the string encoding of the payment address
	// associated with the Address value. See the comment on String
	// for how this method differs from String.
	EncodeAddress() string

	// ScriptAddress returns a copy of the raw payload to be used when
	// inserting the address into a txout's script.
	ScriptAddress() []byte

	// Prefix returns the prefix for this address
	Prefix() Bech32Prefix

	// Version returns the address version of this address
	Version() AddressVersion

	// IsForPrefix returns whether or not the address is associated with the
	// passed kaspa network.
	IsForPrefix(prefix Bech32Prefix) bool

	// Equal returns whether both addresses encode the same destination
	Equal(other Address) bool
}

// DecodeAddress decodes the string encoding of an address and returns
// the Address if addr is a valid encoding for a known address type.
//
// If any expectedPrefix except Bech32PrefixUnknown is passed, it is compared to the
// prefix extracted from the address, and if the two do not match - an error is returned
func DecodeAddress(addr string, expectedPrefix Bech32Prefix) (Address, error) {
	prefixString, decoded, version, err := bech32.Decode(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "decoded address %q is of unknown format", addr)
	}

	prefix, err := ParsePrefix(prefixString)
	if err != nil {
		return nil, errors.Wrapf(err, "decoded address's prefix could not be parsed")
	}
	if expectedPrefix != Bech32PrefixUnknown && expectedPrefix != prefix {
		return nil, errors.Wrapf(ErrDecode, "decoded address is of wrong network. Expected %s but got %s",
			expectedPrefix, prefix)
	}

	switch AddressVersion(version) {
	case PubKey:
		return newAddressPublicKey(prefix, decoded)
	case PubKeyECDSA:
		return newAddressPublicKeyECDSA(prefix, decoded)
	case ScriptHash:
		return newAddressScriptHashFromHash(prefix, decoded)
	default:
		return nil, errors.Wrapf(ErrUnknownAddressType, "version %d", version)
	}
}

func checkPayloadLength(prefix Bech32Prefix, payload []byte, expectedLength int, kind string) error {
	if prefix.isTestPrefix() || len(payload) == expectedLength {
		return nil
	}
	return errors.Wrapf(ErrDecode, "%s must be %d bytes, got %d", kind, expectedLength, len(payload))
}

func copyBytes(data []byte) []byte {
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	return dataCopy
}

// AddressPublicKey is an Address for a pay-to-pubkey (P2PK)
// transaction.
type AddressPublicKey struct {
	prefix    Bech32Prefix
	publicKey []byte
}

// NewAddressPublicKey returns a new AddressPublicKey. publicKey must be 32
// bytes.
func NewAddressPublicKey(publicKey []byte, prefix Bech32Prefix) (*AddressPublicKey, error) {
	return newAddressPublicKey(prefix, publicKey)
}

// newAddressPublicKey is the internal API to create a pubkey address
// with a known leading identifier byte for a network, rather than looking
// it up through its parameters. This is useful when creating a new address
// structure from a string encoding where the identifier byte is already
// known.
func newAddressPublicKey(prefix Bech32Prefix, publicKey []byte) (*AddressPublicKey, error) {
	if err := checkPayloadLength(prefix, publicKey, PublicKeySize, "publicKey"); err != nil {
		return nil, err
	}

	return &AddressPublicKey{prefix: prefix, publicKey: copyBytes(publicKey)}, nil
}

// EncodeAddress returns the string encoding of a pay-to-pubkey
// address. Part of the Address interface.
func (a *AddressPublicKey) EncodeAddress() string {
	return encodeAddress(a.prefix, a.publicKey, PubKey)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a pubkey. Part of the Address interface.
func (a *AddressPublicKey) ScriptAddress() []byte {
	return copyBytes(a.publicKey)
}

// Prefix returns the prefix for this address
func (a *AddressPublicKey) Prefix() Bech32Prefix {
	return a.prefix
}

// Version returns PubKey
func (a *AddressPublicKey) Version() AddressVersion {
	return PubKey
}

// IsForPrefix returns whether or not the pay-to-pubkey address is associated
// with the passed kaspa network.
func (a *AddressPublicKey) IsForPrefix(prefix Bech32Prefix) bool {
	return a.prefix == prefix
}

// String returns a human-readable string for the pay-to-pubkey address.
// This is equivalent to calling EncodeAddress, but is provided so the type can
// be used as a fmt.Stringer.
func (a *AddressPublicKey) String() string {
	return a.EncodeAddress()
}

// Equal returns whether both addresses encode the same destination
func (a *AddressPublicKey) Equal(other Address) bool {
	return equalAddresses(a, other)
}

// AddressPublicKeyECDSA is an Address for a pay-to-pubkey (P2PK)
// ECDSA transaction.
type AddressPublicKeyECDSA struct {
	prefix    Bech32Prefix
	publicKey []byte
}

// NewAddressPublicKeyECDSA returns a new AddressPublicKeyECDSA. publicKey must be 33
// bytes.
func NewAddressPublicKeyECDSA(publicKey []byte, prefix Bech32Prefix) (*AddressPublicKeyECDSA, error) {
	return newAddressPublicKeyECDSA(prefix, publicKey)
}

func newAddressPublicKeyECDSA(prefix Bech32Prefix, publicKey []byte) (*AddressPublicKeyECDSA, error) {
	if err := checkPayloadLength(prefix, publicKey, PublicKeySizeECDSA, "publicKey"); err != nil {
		return nil, err
	}

	return &AddressPublicKeyECDSA{prefix: prefix, publicKey: copyBytes(publicKey)}, nil
}

// EncodeAddress returns the string encoding of a pay-to-pubkey
// address. Part of the Address interface.
func (a *AddressPublicKeyECDSA) EncodeAddress() string {
	return encodeAddress(a.prefix, a.publicKey, PubKeyECDSA)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a pubkey. Part of the Address interface.
func (a *AddressPublicKeyECDSA) ScriptAddress() []byte {
	return copyBytes(a.publicKey)
}

// Prefix returns the prefix for this address
func (a *AddressPublicKeyECDSA) Prefix() Bech32Prefix {
	return a.prefix
}

// Version returns PubKeyECDSA
func (a *AddressPublicKeyECDSA) Version() AddressVersion {
	return PubKeyECDSA
}

// IsForPrefix returns whether or not the pay-to-pubkey address is associated
// with the passed kaspa network.
func (a *AddressPublicKeyECDSA) IsForPrefix(prefix Bech32Prefix) bool {
	return a.prefix == prefix
}

// String returns a human-readable string for the pay-to-pubkey address.
// This is equivalent to calling EncodeAddress, but is provided so the type can
// be used as a fmt.Stringer.
func (a *AddressPublicKeyECDSA) String() string {
	return a.EncodeAddress()
}

// Equal returns whether both addresses encode the same destination
func (a *AddressPublicKeyECDSA) Equal(other Address) bool {
	return equalAddresses(a, other)
}

// AddressScriptHash is an Address for a pay-to-script-hash (P2SH)
// transaction.
type AddressScriptHash struct {
	prefix Bech32Prefix
	hash   []byte
}

// NewAddressScriptHash returns a new AddressScriptHash for the BLAKE2b-256
// hash of redeemScript.
func NewAddressScriptHash(redeemScript []byte, prefix Bech32Prefix) (*AddressScriptHash, error) {
	return newAddressScriptHashFromHash(prefix, HashBlake2b(redeemScript))
}

// NewAddressScriptHashFromHash returns a new AddressScriptHash. scriptHash
// must be 32 bytes.
func NewAddressScriptHashFromHash(scriptHash []byte, prefix Bech32Prefix) (*AddressScriptHash, error) {
	return newAddressScriptHashFromHash(prefix, scriptHash)
}

// newAddressScriptHashFromHash is the internal API to create a script hash
// address with a known leading identifier byte for a network, rather than
// looking it up through its parameters. This is useful when creating a new
// address structure from a string encoding where the identifier byte is
// already known.
func newAddressScriptHashFromHash(prefix Bech32Prefix, scriptHash []byte) (*AddressScriptHash, error) {
	if err := checkPayloadLength(prefix, scriptHash, ScriptHashSize, "scriptHash"); err != nil {
		return nil, err
	}

	return &AddressScriptHash{prefix: prefix, hash: copyBytes(scriptHash)}, nil
}

// EncodeAddress returns the string encoding of a pay-to-script-hash
// address. Part of the Address interface.
func (a *AddressScriptHash) EncodeAddress() string {
	return encodeAddress(a.prefix, a.hash, ScriptHash)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a script hash. Part of the Address interface.
func (a *AddressScriptHash) ScriptAddress() []byte {
	return copyBytes(a.hash)
}

// Prefix returns the prefix for this address
func (a *AddressScriptHash) Prefix() Bech32Prefix {
	return a.prefix
}

// Version returns ScriptHash
func (a *AddressScriptHash) Version() AddressVersion {
	return ScriptHash
}

// IsForPrefix returns whether or not the pay-to-script-hash address is associated
// with the passed kaspa network.
func (a *AddressScriptHash) IsForPrefix(prefix Bech32Prefix) bool {
	return a.prefix == prefix
}

// String returns a human-readable string for the pay-to-script-hash address.
// This is equivalent to calling EncodeAddress, but is provided so the type can
// be used as a fmt.Stringer.
func (a *AddressScriptHash) String() string {
	return a.EncodeAddress()
}

// Equal returns whether both addresses encode the same destination
func (a *AddressScriptHash) Equal(other Address) bool {
	return equalAddresses(a, other)
}

func equalAddresses(a, other Address) bool {
	if other == nil {
		return false
	}
	return a.EncodeAddress() == other.EncodeAddress()
}
