package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainHashSize is the size in bytes of every hash in the protocol.
const DomainHashSize = 32

// DomainHash is a 32 byte hash. Its bytes are only reachable through copies.
type DomainHash struct {
	hashArray [DomainHashSize]byte
}

// NewZeroHash returns the all-zero hash.
func NewZeroHash() *DomainHash {
	return &DomainHash{}
}

// NewDomainHashFromByteArray copies hashBytes into a new DomainHash.
func NewDomainHashFromByteArray(hashBytes *[DomainHashSize]byte) *DomainHash {
	return &DomainHash{hashArray: *hashBytes}
}

// NewDomainHashFromByteSlice copies hashBytes into a new DomainHash. It
// fails unless hashBytes is exactly DomainHashSize long.
func NewDomainHashFromByteSlice(hashBytes []byte) (*DomainHash, error) {
	if len(hashBytes) != DomainHashSize {
		return nil, errors.Errorf("invalid hash size %d, expected %d", len(hashBytes), DomainHashSize)
	}
	hash := &DomainHash{}
	copy(hash.hashArray[:], hashBytes)
	return hash, nil
}

// NewDomainHashFromString parses a hex encoded hash.
func NewDomainHashFromString(hashString string) (*DomainHash, error) {
	if len(hashString) != 2*DomainHashSize {
		return nil, errors.Errorf("invalid hash string length %d, expected %d",
			len(hashString), 2*DomainHashSize)
	}
	hashBytes, err := hex.DecodeString(hashString)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewDomainHashFromByteSlice(hashBytes)
}

// String returns the hash in hex.
func (hash DomainHash) String() string {
	return hex.EncodeToString(hash.hashArray[:])
}

// ByteArray returns a copy of the hash bytes.
func (hash *DomainHash) ByteArray() *[DomainHashSize]byte {
	hashArray := hash.hashArray
	return &hashArray
}

// ByteSlice returns a copy of the hash bytes as a slice.
func (hash *DomainHash) ByteSlice() []byte {
	return hash.ByteArray()[:]
}

// Equal reports whether hash and other hold the same bytes. Two nil hashes
// are equal.
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return hash.hashArray == other.hashArray
}
