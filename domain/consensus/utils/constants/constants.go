package constants

import "math"

const (
	// MaxTransactionVersion is the only transaction version this module builds.
	MaxTransactionVersion uint16 = 0

	// MaxScriptPublicKeyVersion is the current latest supported public key script version.
	MaxScriptPublicKeyVersion uint16 = 0

	// SompiPerKaspa is the number of sompi in one kaspa (1 KAS).
	SompiPerKaspa = 100_000_000

	// MaxSompi is the maximum transaction amount allowed in sompi.
	MaxSompi = uint64(29_000_000_000 * SompiPerKaspa)

	// UnacceptedDAAScore marks UTXO entries created by transactions that no
	// block has accepted yet, such as change and commit outputs a wallet
	// spends before they confirm.
	UnacceptedDAAScore = math.MaxUint64
)
