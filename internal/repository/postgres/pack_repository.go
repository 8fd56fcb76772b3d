package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/metrics"
	"stickerpack-service/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// packRepository is the PostgreSQL implementation of repository.PackRepository.
// The lowercase name means it's private to this package; the constructor
// returns the interface type for abstraction.
type packRepository struct {
	db *pgxpool.Pool
}

// NewPackRepository creates a new PostgreSQL pack repository.
func NewPackRepository(db *pgxpool.Pool) repository.PackRepository {
	return &packRepository{db: db}
}

// Create inserts a pack and its stickers in a single transaction, so a
// half-written pack can never be observed.
func (r *packRepository) Create(ctx context.Context, pack *domain.StickerPack) error {
	start := time.Now()
	defer func() {
		metrics.DatabaseQueryDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO sticker_packs (
			identifier, name, publisher, tray_image_file,
			publisher_email, publisher_website, privacy_policy_website,
			license_agreement_website, android_play_store_link, ios_app_store_link,
			image_data_version, animated, created_at, published
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err = tx.Exec(
		ctx,
		query,
		pack.Identifier,
		pack.Name,
		pack.Publisher,
		pack.TrayImageFile,
		pack.PublisherEmail,
		pack.PublisherWebsite,
		pack.PrivacyPolicyWebsite,
		pack.LicenseAgreementWebsite,
		pack.AndroidPlayStoreLink,
		pack.IOSAppStoreLink,
		pack.ImageDataVersion,
		pack.AnimatedStickerPack,
		pack.CreatedAt,
		pack.Published,
	)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the identifier primary key
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrPackAlreadyExists
		}
		return fmt.Errorf("failed to create pack: %w", err)
	}

	stickerQuery := `
		INSERT INTO stickers (pack_identifier, position, image_file, emojis)
		VALUES ($1, $2, $3, $4)
	`
	// The position column preserves submission order; the delivery payload
	// must list stickers in the same order they were submitted.
	for i, sticker := range pack.Stickers {
		if _, err := tx.Exec(ctx, stickerQuery, pack.Identifier, i, sticker.ImageFileName, sticker.Emojis); err != nil {
			metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
			return fmt.Errorf("failed to create sticker %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
		return fmt.Errorf("failed to commit pack: %w", err)
	}

	return nil
}

// GetByIdentifier retrieves a pack and its stickers in submission order.
func (r *packRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.StickerPack, error) {
	start := time.Now()
	defer func() {
		metrics.DatabaseQueryDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	query := `
		SELECT identifier, name, publisher, tray_image_file,
		       publisher_email, publisher_website, privacy_policy_website,
		       license_agreement_website, android_play_store_link, ios_app_store_link,
		       image_data_version, animated, created_at, published
		FROM sticker_packs
		WHERE identifier = $1
	`

	pack := &domain.StickerPack{}
	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&pack.Identifier,
		&pack.Name,
		&pack.Publisher,
		&pack.TrayImageFile,
		&pack.PublisherEmail,
		&pack.PublisherWebsite,
		&pack.PrivacyPolicyWebsite,
		&pack.LicenseAgreementWebsite,
		&pack.AndroidPlayStoreLink,
		&pack.IOSAppStoreLink,
		&pack.ImageDataVersion,
		&pack.AnimatedStickerPack,
		&pack.CreatedAt,
		&pack.Published,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackNotFound
		}
		metrics.DatabaseErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get pack: %w", err)
	}

	stickers, err := r.loadStickers(ctx, identifier)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("get").Inc()
		return nil, err
	}
	pack.Stickers = stickers

	return pack, nil
}

// List returns packs ordered newest first. Stickers are loaded per pack -
// listing is an admin operation, not a hot path.
func (r *packRepository) List(ctx context.Context, limit, offset int) ([]*domain.StickerPack, error) {
	start := time.Now()
	defer func() {
		metrics.DatabaseQueryDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	}()

	query := `
		SELECT identifier, name, publisher, tray_image_file,
		       publisher_email, publisher_website, privacy_policy_website,
		       license_agreement_website, android_play_store_link, ios_app_store_link,
		       image_data_version, animated, created_at, published
		FROM sticker_packs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	var packs []*domain.StickerPack
	for rows.Next() {
		pack := &domain.StickerPack{}
		if err := rows.Scan(
			&pack.Identifier,
			&pack.Name,
			&pack.Publisher,
			&pack.TrayImageFile,
			&pack.PublisherEmail,
			&pack.PublisherWebsite,
			&pack.PrivacyPolicyWebsite,
			&pack.LicenseAgreementWebsite,
			&pack.AndroidPlayStoreLink,
			&pack.IOSAppStoreLink,
			&pack.ImageDataVersion,
			&pack.AnimatedStickerPack,
			&pack.CreatedAt,
			&pack.Published,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packs: %w", err)
	}

	for _, pack := range packs {
		stickers, err := r.loadStickers(ctx, pack.Identifier)
		if err != nil {
			return nil, err
		}
		pack.Stickers = stickers
	}

	return packs, nil
}

// ExistsIdentifier checks if a pack identifier is already taken.
func (r *packRepository) ExistsIdentifier(ctx context.Context, identifier string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sticker_packs WHERE identifier = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, identifier).Scan(&exists); err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("get").Inc()
		return false, fmt.Errorf("failed to check pack existence: %w", err)
	}

	return exists, nil
}

// MarkPublished records a successful hand-off.
func (r *packRepository) MarkPublished(ctx context.Context, identifier string) error {
	start := time.Now()
	defer func() {
		metrics.DatabaseQueryDuration.WithLabelValues("publish").Observe(time.Since(start).Seconds())
	}()

	query := `UPDATE sticker_packs SET published = true WHERE identifier = $1`

	tag, err := r.db.Exec(ctx, query, identifier)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("publish").Inc()
		return fmt.Errorf("failed to mark pack published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPackNotFound
	}

	return nil
}

// Delete removes a pack; stickers go with it via ON DELETE CASCADE.
func (r *packRepository) Delete(ctx context.Context, identifier string) error {
	start := time.Now()
	defer func() {
		metrics.DatabaseQueryDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM sticker_packs WHERE identifier = $1`, identifier)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("failed to delete pack: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPackNotFound
	}

	return nil
}

// loadStickers fetches a pack's stickers in submission order.
func (r *packRepository) loadStickers(ctx context.Context, identifier string) ([]domain.Sticker, error) {
	query := `
		SELECT image_file, emojis
		FROM stickers
		WHERE pack_identifier = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Query(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load stickers: %w", err)
	}
	defer rows.Close()

	var stickers []domain.Sticker
	for rows.Next() {
		var s domain.Sticker
		if err := rows.Scan(&s.ImageFileName, &s.Emojis); err != nil {
			return nil, fmt.Errorf("failed to scan sticker: %w", err)
		}
		stickers = append(stickers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stickers: %w", err)
	}

	return stickers, nil
}

// InitDB initializes the database connection pool.
func InitDB(ctx context.Context, dsn string, maxConns, minConns int, maxLifetime time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = maxLifetime
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
