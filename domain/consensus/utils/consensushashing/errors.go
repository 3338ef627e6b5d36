package consensushashing

import "github.com/pkg/errors"

// ErrSerialization is returned, wrapped with the failure details, when a
// transaction cannot be serialized for signing.
var ErrSerialization = errors.New("serialization error")
