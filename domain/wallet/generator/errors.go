package generator

import "github.com/pkg/errors"

var (
	// ErrInsufficientFunds is returned when the candidate UTXOs can't cover
	// the payments together with the fees
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoUTXOs is returned when a generator is given no UTXOs at all
	ErrNoUTXOs = errors.New("no UTXOs to spend")

	// ErrInvalidGeneratorInput is returned for inconsistent settings
	ErrInvalidGeneratorInput = errors.New("invalid generator input")

	// ErrSigningKeyNotFound is returned when signing an input whose
	// public key doesn't belong to any of the given keys
	ErrSigningKeyNotFound = errors.New("signing key not found")
)
