package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stickerpack-service/internal/domain"
)

// HTTPClient delivers packs to the host app's bridge over HTTP.
// One POST per pack; the bridge either accepts the payload or returns a
// coded failure.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates a bridge client for the given endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// addPackPayload is the bridge's wire format for a pack hand-off.
// Field names are fixed by the bridge contract.
type addPackPayload struct {
	Identifier              string           `json:"identifier"`
	Name                    string           `json:"name"`
	Publisher               string           `json:"publisher"`
	TrayImageFileName       string           `json:"trayImageFileName"`
	PublisherWebsite        string           `json:"publisherWebsite,omitempty"`
	PrivacyPolicyWebsite    string           `json:"privacyPolicyWebsite,omitempty"`
	LicenseAgreementWebsite string           `json:"licenseAgreementWebsite,omitempty"`
	ImageDataVersion        string           `json:"imageDataVersion"`
	AnimatedStickerPack     bool             `json:"animatedStickerPack"`
	Stickers                []stickerPayload `json:"stickers"`
}

type stickerPayload struct {
	ImageFileName string   `json:"imageFileName"`
	Emojis        []string `json:"emojis"`
}

// bridgeResponse is what the bridge returns: either {"added": true} or a
// coded error.
type bridgeResponse struct {
	Added bool `json:"added"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AddPack posts the pack payload to the bridge. Coded failures come back as
// *Error; transport failures are returned as plain wrapped errors so the
// caller can tell "the bridge said no" apart from "we never reached it".
func (c *HTTPClient) AddPack(ctx context.Context, pack *domain.StickerPack) error {
	payload := addPackPayload{
		Identifier:              pack.Identifier,
		Name:                    pack.Name,
		Publisher:               pack.Publisher,
		TrayImageFileName:       pack.TrayImageFile,
		PublisherWebsite:        pack.PublisherWebsite,
		PrivacyPolicyWebsite:    pack.PrivacyPolicyWebsite,
		LicenseAgreementWebsite: pack.LicenseAgreementWebsite,
		ImageDataVersion:        pack.ImageDataVersion,
		AnimatedStickerPack:     pack.AnimatedStickerPack,
		Stickers:                make([]stickerPayload, 0, len(pack.Stickers)),
	}
	// Sticker order is part of the contract.
	for _, s := range pack.Stickers {
		payload.Stickers = append(payload.Stickers, stickerPayload{
			ImageFileName: s.ImageFileName,
			Emojis:        s.Emojis,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal pack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	var bridged bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&bridged); err != nil {
		return fmt.Errorf("failed to decode bridge response (status %d): %w", resp.StatusCode, err)
	}

	if bridged.Error != nil {
		c.logger.Warn("bridge rejected pack",
			"identifier", pack.Identifier,
			"code", bridged.Error.Code,
		)
		// Known or not, the code is passed through unchanged.
		return &Error{Code: bridged.Error.Code, Message: bridged.Error.Message}
	}
	if !bridged.Added {
		return fmt.Errorf("bridge returned neither success nor error (status %d)", resp.StatusCode)
	}

	return nil
}
