package utxo

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
)

type utxoEntry struct {
	amount          uint64
	scriptPublicKey *externalapi.ScriptPublicKey
	blockDAAScore   uint64
	isCoinbase      bool
}

// NewUTXOEntry returns an immutable UTXOEntry. scriptPubKey is cloned.
func NewUTXOEntry(amount uint64, scriptPubKey *externalapi.ScriptPublicKey, isCoinbase bool, blockDAAScore uint64) externalapi.UTXOEntry {
	return &utxoEntry{
		amount:          amount,
		scriptPublicKey: scriptPubKey.Clone(),
		blockDAAScore:   blockDAAScore,
		isCoinbase:      isCoinbase,
	}
}

func (u *utxoEntry) Amount() uint64 {
	return u.amount
}

func (u *utxoEntry) ScriptPublicKey() *externalapi.ScriptPublicKey {
	return u.scriptPublicKey.Clone()
}

func (u *utxoEntry) BlockDAAScore() uint64 {
	return u.blockDAAScore
}

func (u *utxoEntry) IsCoinbase() bool {
	return u.isCoinbase
}

// Equal compares u and other field by field. Any UTXOEntry implementation
// can be compared.
func (u *utxoEntry) Equal(other externalapi.UTXOEntry) bool {
	if u == nil || other == nil {
		return u == nil && other == nil
	}
	if otherEntry, ok := other.(*utxoEntry); ok && otherEntry == nil {
		return false
	}
	return u.amount == other.Amount() &&
		u.blockDAAScore == other.BlockDAAScore() &&
		u.isCoinbase == other.IsCoinbase() &&
		u.scriptPublicKey.Equal(other.ScriptPublicKey())
}
