package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stickerpack-service/internal/delivery"
	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/metrics"
	"stickerpack-service/internal/repository"
	"stickerpack-service/internal/validation"
)

// PackService handles business logic for sticker pack operations.
// This is the SERVICE LAYER - it sits between HTTP handlers and the
// repositories, validator and delivery client, and is the only place that
// decides when validation runs.
//
// Validation results are never cached or persisted: publishing re-validates
// even a pack that validated cleanly on submission, because the asset bytes
// may have changed in between and each validation call is a pure function of
// (pack, asset bytes).
type PackService struct {
	packRepo  repository.PackRepository
	eventRepo repository.EventRepository
	validator *validation.Validator
	loader    validation.AssetLoader
	deliverer delivery.Client
	logger    *slog.Logger
}

// NewPackService creates a new pack service.
func NewPackService(
	packRepo repository.PackRepository,
	eventRepo repository.EventRepository,
	validator *validation.Validator,
	loader validation.AssetLoader,
	deliverer delivery.Client,
	logger *slog.Logger,
) *PackService {
	return &PackService{
		packRepo:  packRepo,
		eventRepo: eventRepo,
		validator: validator,
		loader:    loader,
		deliverer: deliverer,
		logger:    logger,
	}
}

// Validate runs the full validation engine over a pack without touching
// storage. Used for dry-run requests and internally before submit/publish.
func (s *PackService) Validate(ctx context.Context, pack *domain.StickerPack) error {
	start := time.Now()
	err := s.validator.ValidatePack(ctx, pack, s.loader)

	code := ""
	if verr, ok := err.(*validation.Error); ok {
		code = verr.Kind.Code()
	}
	metrics.RecordValidation(err == nil, code, time.Since(start))

	return err
}

// SubmitPack validates a pack and stores it. The pack is rejected before any
// database write if validation fails, so storage only ever holds packs that
// were valid at submission time.
func (s *PackService) SubmitPack(ctx context.Context, pack *domain.StickerPack, ipAddress, userAgent string) error {
	exists, err := s.packRepo.ExistsIdentifier(ctx, pack.Identifier)
	if err != nil {
		return fmt.Errorf("failed to check pack existence: %w", err)
	}
	if exists {
		return domain.ErrPackAlreadyExists
	}

	if err := s.Validate(ctx, pack); err != nil {
		return err
	}

	if pack.CreatedAt.IsZero() {
		pack.CreatedAt = time.Now()
	}
	if err := s.packRepo.Create(ctx, pack); err != nil {
		return fmt.Errorf("failed to store pack: %w", err)
	}

	metrics.RecordPackSubmitted()
	s.recordEvent(ctx, pack.Identifier, domain.ActionSubmit, ipAddress, userAgent)

	return nil
}

// PublishPack re-validates a stored pack and hands it to the host app.
// A delivery.Error comes back unchanged (including ALREADY_ADDED and codes
// this service does not recognize); the pack is marked published only after
// the bridge accepts it.
func (s *PackService) PublishPack(ctx context.Context, identifier, ipAddress, userAgent string) (*domain.StickerPack, error) {
	pack, err := s.packRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(ctx, pack); err != nil {
		return nil, err
	}

	if err := s.deliverer.AddPack(ctx, pack); err != nil {
		if derr, ok := err.(*delivery.Error); ok {
			metrics.RecordDeliveryFailure(derr.Code)
		}
		return nil, err
	}

	if err := s.packRepo.MarkPublished(ctx, identifier); err != nil {
		// The hand-off succeeded; losing the published flag is not worth
		// failing the request over.
		s.logger.Warn("failed to mark pack published", "identifier", identifier, "error", err)
	}
	pack.Published = true

	metrics.RecordPackPublished()
	s.recordEvent(ctx, identifier, domain.ActionPublish, ipAddress, userAgent)

	return pack, nil
}

// GetPack retrieves a stored pack by identifier.
func (s *PackService) GetPack(ctx context.Context, identifier string) (*domain.StickerPack, error) {
	return s.packRepo.GetByIdentifier(ctx, identifier)
}

// ListPacks returns stored packs, newest first.
func (s *PackService) ListPacks(ctx context.Context, limit, offset int) ([]*domain.StickerPack, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.packRepo.List(ctx, limit, offset)
}

// DeletePack removes a stored pack.
func (s *PackService) DeletePack(ctx context.Context, identifier, ipAddress, userAgent string) error {
	if err := s.packRepo.Delete(ctx, identifier); err != nil {
		return err
	}
	s.recordEvent(ctx, identifier, domain.ActionDelete, ipAddress, userAgent)
	return nil
}

// GetPackEvents returns the recent audit trail for a pack.
func (s *PackService) GetPackEvents(ctx context.Context, identifier string, limit int) ([]*domain.PackEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.eventRepo.GetByPackIdentifier(ctx, identifier, limit, 0)
}

// recordEvent appends to the audit trail. Audit is important but not
// critical, so a failed insert is logged and the request continues.
func (s *PackService) recordEvent(ctx context.Context, identifier, action, ipAddress, userAgent string) {
	event := domain.NewPackEvent(identifier, action, ipAddress, userAgent)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record pack event",
			"identifier", identifier,
			"action", action,
			"error", err,
		)
	}
}
