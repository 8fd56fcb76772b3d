package repository

import (
	"context"

	"stickerpack-service/internal/domain"
)

// PackRepository defines the interface for sticker pack persistence.
// This is the "Repository Pattern" - it abstracts data storage so the
// service layer never sees SQL, and tests can substitute mocks.
//
// Note that only packs are stored. Validation results are never persisted:
// validation is a pure function of (pack, asset bytes) and is re-run on
// every publish.
type PackRepository interface {
	// Create inserts a new pack with its stickers.
	// Returns domain.ErrPackAlreadyExists on identifier collision.
	Create(ctx context.Context, pack *domain.StickerPack) error

	// GetByIdentifier retrieves a pack and its stickers, in order.
	// Returns domain.ErrPackNotFound when absent.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.StickerPack, error)

	// List returns packs ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.StickerPack, error)

	// ExistsIdentifier checks whether a pack identifier is already taken.
	ExistsIdentifier(ctx context.Context, identifier string) (bool, error)

	// MarkPublished records a successful hand-off to the host app.
	MarkPublished(ctx context.Context, identifier string) error

	// Delete removes a pack and its stickers.
	Delete(ctx context.Context, identifier string) error
}

// EventRepository defines the interface for the pack audit trail.
type EventRepository interface {
	// Create inserts a new lifecycle event.
	Create(ctx context.Context, event *domain.PackEvent) error

	// GetByPackIdentifier retrieves recent events for a pack.
	GetByPackIdentifier(ctx context.Context, identifier string, limit, offset int) ([]*domain.PackEvent, error)
}
