// Package delivery hands validated sticker packs to the host messaging app
// through its bridge endpoint. The bridge reports failures as fixed string
// codes; this package turns known codes into typed errors and re-raises
// unknown codes unchanged rather than swallowing them.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"stickerpack-service/internal/domain"
)

// Codes the bridge can return on top of the validation wire codes.
const (
	CodeAlreadyAdded = "ALREADY_ADDED"
	CodeCancelled    = "CANCELLED"
)

// Client delivers a pack to the host app. Implementations do not retry;
// retries, if desired, belong to the caller.
type Client interface {
	AddPack(ctx context.Context, pack *domain.StickerPack) error
}

// Error is a coded failure reported by the host app. Code is one of the
// validation wire codes, CodeAlreadyAdded, CodeCancelled, or - for codes
// this service does not recognize - whatever string the bridge sent.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAlreadyAdded reports whether err is the bridge telling us the pack is
// already installed in the host app.
func IsAlreadyAdded(err error) bool {
	return hasCode(err, CodeAlreadyAdded)
}

// IsCancelled reports whether err is the bridge telling us the user
// cancelled the hand-off.
func IsCancelled(err error) bool {
	return hasCode(err, CodeCancelled)
}

func hasCode(err error, code string) bool {
	var derr *Error
	if !errors.As(err, &derr) {
		return false
	}
	return derr.Code == code
}
