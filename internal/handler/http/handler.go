package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stickerpack-service/internal/delivery"
	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/validation"
)

// PackService interface defines the service methods needed by the handler.
// Using an interface instead of the concrete type allows for easy mocking
// in tests.
type PackService interface {
	Validate(ctx context.Context, pack *domain.StickerPack) error
	SubmitPack(ctx context.Context, pack *domain.StickerPack, ipAddress, userAgent string) error
	PublishPack(ctx context.Context, identifier, ipAddress, userAgent string) (*domain.StickerPack, error)
	GetPack(ctx context.Context, identifier string) (*domain.StickerPack, error)
	ListPacks(ctx context.Context, limit, offset int) ([]*domain.StickerPack, error)
	DeletePack(ctx context.Context, identifier, ipAddress, userAgent string) error
	GetPackEvents(ctx context.Context, identifier string, limit int) ([]*domain.PackEvent, error)
}

// Handler holds dependencies for HTTP handlers.
// Dependencies come in through the constructor, never globals.
type Handler struct {
	packService PackService
	logger      *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(packService PackService, logger *slog.Logger) *Handler {
	return &Handler{
		packService: packService,
		logger:      logger,
	}
}

// Request/Response DTOs. The submit request body is a pack manifest in the
// contents.json format, so it unmarshals straight into domain.StickerPack.

type packResponse struct {
	Identifier   string    `json:"identifier"`
	Name         string    `json:"name"`
	Publisher    string    `json:"publisher"`
	Animated     bool      `json:"animated"`
	StickerCount int       `json:"sticker_count"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type eventResponse struct {
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
}

func toPackResponse(pack *domain.StickerPack) packResponse {
	return packResponse{
		Identifier:   pack.Identifier,
		Name:         pack.Name,
		Publisher:    pack.Publisher,
		Animated:     pack.AnimatedStickerPack,
		StickerCount: pack.StickerCount(),
		Published:    pack.Published,
		CreatedAt:    pack.CreatedAt,
	}
}

// Packs handles /api/v1/packs:
//   - POST: submit a pack (validate + store)
//   - GET:  list stored packs
func (h *Handler) Packs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitPack(w, r)
	case http.MethodGet:
		h.listPacks(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// PackByIdentifier handles /api/v1/packs/{identifier} and its sub-routes
// /validate and /publish. Paths are parsed manually; the identifier charset
// cannot contain '/', so splitting is unambiguous.
func (h *Handler) PackByIdentifier(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/packs/")
	identifier, sub, _ := strings.Cut(rest, "/")
	if identifier == "" {
		respondError(w, http.StatusBadRequest, "Pack identifier is required")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.getPack(w, r, identifier)
	case sub == "" && r.Method == http.MethodDelete:
		h.deletePack(w, r, identifier)
	case sub == "publish" && r.Method == http.MethodPost:
		h.publishPack(w, r, identifier)
	case sub == "events" && r.Method == http.MethodGet:
		h.getPackEvents(w, r, identifier)
	default:
		respondError(w, http.StatusNotFound, "Not found")
	}
}

// ValidatePack handles POST /api/v1/packs/validate - a dry run that runs the
// full validation engine against the submitted manifest without storing
// anything.
func (h *Handler) ValidatePack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pack, ok := h.decodePack(w, r)
	if !ok {
		return
	}

	if err := h.packService.Validate(r.Context(), pack); err != nil {
		h.respondPackError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, validateResponse{Valid: true}, "")
}

func (h *Handler) submitPack(w http.ResponseWriter, r *http.Request) {
	pack, ok := h.decodePack(w, r)
	if !ok {
		return
	}

	if err := h.packService.SubmitPack(r.Context(), pack, extractIP(r), r.UserAgent()); err != nil {
		h.respondPackError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, toPackResponse(pack), "Pack submitted successfully")
}

func (h *Handler) listPacks(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	packs, err := h.packService.ListPacks(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list packs", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list packs")
		return
	}

	responses := make([]packResponse, 0, len(packs))
	for _, pack := range packs {
		responses = append(responses, toPackResponse(pack))
	}

	respondSuccess(w, http.StatusOK, responses, "")
}

func (h *Handler) getPack(w http.ResponseWriter, r *http.Request, identifier string) {
	pack, err := h.packService.GetPack(r.Context(), identifier)
	if err != nil {
		h.respondPackError(w, err)
		return
	}

	// Full manifest, not the summary DTO - callers use this to re-fetch what
	// they submitted.
	respondSuccess(w, http.StatusOK, pack, "")
}

func (h *Handler) publishPack(w http.ResponseWriter, r *http.Request, identifier string) {
	pack, err := h.packService.PublishPack(r.Context(), identifier, extractIP(r), r.UserAgent())
	if err != nil {
		h.respondPackError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, toPackResponse(pack), "Pack published successfully")
}

func (h *Handler) getPackEvents(w http.ResponseWriter, r *http.Request, identifier string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.packService.GetPackEvents(r.Context(), identifier, limit)
	if err != nil {
		h.respondPackError(w, err)
		return
	}

	responses := make([]eventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, eventResponse{
			Action:     event.Action,
			OccurredAt: event.OccurredAt,
			IPAddress:  event.IPAddress,
			UserAgent:  event.UserAgent,
		})
	}

	respondSuccess(w, http.StatusOK, responses, "")
}

func (h *Handler) deletePack(w http.ResponseWriter, r *http.Request, identifier string) {
	if err := h.packService.DeletePack(r.Context(), identifier, extractIP(r), r.UserAgent()); err != nil {
		h.respondPackError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Pack deleted")
}

// HealthCheck handles GET /health/live.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// decodePack parses a pack manifest from the request body.
func (h *Handler) decodePack(w http.ResponseWriter, r *http.Request) (*domain.StickerPack, bool) {
	var pack domain.StickerPack
	if err := json.NewDecoder(r.Body).Decode(&pack); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	defer r.Body.Close()
	return &pack, true
}

// respondPackError maps the error types the service can return onto HTTP
// statuses. Validation failures carry their wire code so API clients can
// pattern-match exactly like the host app does.
func (h *Handler) respondPackError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondErrorCode(w, http.StatusUnprocessableEntity, verr.Kind.Code(), verr.Message)
		return
	}

	var derr *delivery.Error
	if errors.As(err, &derr) {
		status := http.StatusBadGateway
		if derr.Code == delivery.CodeAlreadyAdded {
			status = http.StatusConflict
		} else if _, ok := validation.KindFromCode(derr.Code); ok {
			// The bridge rejected the pack for a content reason; report it
			// the same way as our own validation failures.
			status = http.StatusUnprocessableEntity
		}
		respondErrorCode(w, status, derr.Code, derr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrPackNotFound):
		respondError(w, http.StatusNotFound, "Pack not found")
	case errors.Is(err, domain.ErrPackAlreadyExists):
		respondErrorCode(w, http.StatusConflict, delivery.CodeAlreadyAdded, "A pack with this identifier already exists")
	default:
		h.logger.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
