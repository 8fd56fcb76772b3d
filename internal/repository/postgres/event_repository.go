package postgres

import (
	"context"
	"fmt"

	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// eventRepository is the PostgreSQL implementation of the pack audit trail.
type eventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{db: db}
}

// Create inserts a new lifecycle event.
func (r *eventRepository) Create(ctx context.Context, event *domain.PackEvent) error {
	query := `
		INSERT INTO pack_events (
			pack_identifier, action, occurred_at, ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		event.PackIdentifier,
		event.Action,
		event.OccurredAt,
		event.IPAddress,
		event.UserAgent,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create pack event: %w", err)
	}

	return nil
}

// GetByPackIdentifier retrieves recent events for a pack, newest first.
func (r *eventRepository) GetByPackIdentifier(ctx context.Context, identifier string, limit, offset int) ([]*domain.PackEvent, error) {
	query := `
		SELECT id, pack_identifier, action, occurred_at, ip_address, user_agent
		FROM pack_events
		WHERE pack_identifier = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, identifier, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get pack events: %w", err)
	}
	defer rows.Close()

	var events []*domain.PackEvent
	for rows.Next() {
		event := &domain.PackEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.PackIdentifier,
			&event.Action,
			&event.OccurredAt,
			&event.IPAddress,
			&event.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pack event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pack events: %w", err)
	}

	return events, nil
}
