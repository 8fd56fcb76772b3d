package assets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an asset does not exist or cannot be read.
// The validation engine reports any loader failure as FILE_NOT_FOUND, so
// implementations are free to wrap this with detail.
var ErrNotFound = errors.New("asset not found")

// Loader resolves a (pack identifier, asset handle) pair into raw bytes.
// Implementations must be safe for concurrent use and must return the same
// bytes for the same pair within one validation call.
type Loader interface {
	Fetch(ctx context.Context, packID, handle string) ([]byte, error)
}
