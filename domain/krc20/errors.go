package krc20

import "github.com/pkg/errors"

var (
	// ErrInvalidInscription is returned for KRC20 operations that
	// can't be inscribed
	ErrInvalidInscription = errors.New("invalid inscription")

	// ErrRevealInputNotFound is returned when a reveal transaction has no
	// input left for the inscription's signature script
	ErrRevealInputNotFound = errors.New("reveal input not found")

	// ErrCommitNotFound is returned when the journal has no entry for a
	// commit transaction
	ErrCommitNotFound = errors.New("commit not found")

	// ErrRevealNotBuilt is returned when confirming the reveal of a commit
	// that was never revealed
	ErrRevealNotBuilt = errors.New("reveal not built")
)
