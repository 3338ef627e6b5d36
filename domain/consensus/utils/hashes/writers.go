package hashes

import (
	"hash"

	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
)

// HashWriter accumulates data into a domain separated hash. Obtain one from
// the constructors in domains.go.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite writes p, panicking on the error hash.Hash never returns.
func (h HashWriter) InfallibleWrite(p []byte) {
	if _, err := h.Write(p); err != nil {
		panic(errors.Wrap(err, "hash.Hash returned a write error"))
	}
}

// Finalize returns the hash of everything written so far.
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	copy(sum[:], h.Sum(nil))
	return externalapi.NewDomainHashFromByteArray(&sum)
}
