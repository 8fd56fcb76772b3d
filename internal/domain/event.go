package domain

import "time"

// Event actions recorded in the audit trail.
const (
	ActionSubmit  = "submit"
	ActionPublish = "publish"
	ActionDelete  = "delete"
)

// PackEvent is an audit record for a lifecycle action on a pack.
// Validation outcomes are deliberately NOT recorded - each validation call is
// a pure function of its inputs and leaves no trace. Events only capture that
// someone submitted, published or deleted a pack.
type PackEvent struct {
	ID             int64     // Auto-incrementing ID
	PackIdentifier string    // The pack the action applied to
	Action         string    // One of the Action* constants
	OccurredAt     time.Time // When the action happened
	IPAddress      string    // Caller IP, for abuse investigations
	UserAgent      string    // Client information
}

// NewPackEvent creates an audit event for a pack action.
func NewPackEvent(packIdentifier, action, ipAddress, userAgent string) *PackEvent {
	return &PackEvent{
		PackIdentifier: packIdentifier,
		Action:         action,
		OccurredAt:     time.Now(),
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
	}
}
