package txscript

import "github.com/pkg/errors"

var (
	// ErrScriptBuilder is returned by ScriptBuilder.Script, wrapped with the
	// failure details, when a push or opcode would produce a script that is
	// not allowed by the consensus rules.
	ErrScriptBuilder = errors.New("script builder error")

	// ErrMalformedScript is returned when a script can't be parsed into
	// opcodes, such as when a data push is truncated.
	ErrMalformedScript = errors.New("malformed script")

	// ErrUnsupportedAddress is returned when attempting to create a script
	// public key for an unsupported address type.
	ErrUnsupportedAddress = errors.New("unsupported address type")

	// ErrUnsupportedScriptVersion is returned for script public keys with a
	// version this package doesn't know about.
	ErrUnsupportedScriptVersion = errors.New("unsupported script public key version")
)
