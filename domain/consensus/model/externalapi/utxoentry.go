package externalapi

// UTXOEntry is an unspent output as seen by a wallet: its value in sompi,
// the script that locks it and the DAA score of the block that accepted the
// transaction creating it.
type UTXOEntry interface {
	Amount() uint64
	ScriptPublicKey() *ScriptPublicKey
	BlockDAAScore() uint64

	// IsCoinbase reports whether the output was created by a coinbase
	// transaction, making it subject to coinbase maturity.
	IsCoinbase() bool

	Equal(other UTXOEntry) bool
}

// OutpointAndUTXOEntryPair ties a UTXOEntry to the outpoint it can be spent by.
type OutpointAndUTXOEntryPair struct {
	Outpoint  *DomainOutpoint
	UTXOEntry UTXOEntry
}
