package dagconfig

import "github.com/pkg/errors"

var (
	// ErrParamsValidation is returned, wrapped with the offending field, when
	// a consensus parameter does not fit its declared integer width
	ErrParamsValidation = errors.New("params validation failed")

	// ErrUnsupportedNetwork is returned when no parameters table matches a
	// requested network
	ErrUnsupportedNetwork = errors.New("unsupported network")
)
