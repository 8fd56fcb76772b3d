package domain

import (
	"errors"
	"time"
)

// StickerPack represents a sticker pack submitted for validation and hand-off
// to the messaging app. This is our "domain model" - plain data plus a few
// convenience methods. All content rules live in internal/validation; the
// domain model never validates itself, so a caller can build an invalid pack
// and still inspect it.
//
// The JSON tags follow the contents.json manifest format used by sticker
// pack bundles, so a manifest can be unmarshaled straight into this struct.
type StickerPack struct {
	Identifier              string    `json:"identifier"`                // Unique pack ID, restricted charset
	Name                    string    `json:"name"`                      // Display name shown in the host app
	Publisher               string    `json:"publisher"`                 // Publisher display name
	TrayImageFile           string    `json:"tray_image_file"`           // Asset handle for the tray icon
	PublisherEmail          string    `json:"publisher_email"`           // Optional contact email
	PublisherWebsite        string    `json:"publisher_website"`         // Optional http(s) URL
	PrivacyPolicyWebsite    string    `json:"privacy_policy_website"`    // Optional http(s) URL
	LicenseAgreementWebsite string    `json:"license_agreement_website"` // Optional http(s) URL
	AndroidPlayStoreLink    string    `json:"android_play_store_link"`   // Optional, must be on play.google.com
	IOSAppStoreLink         string    `json:"ios_app_store_link"`        // Optional, must be on itunes.apple.com
	ImageDataVersion        string    `json:"image_data_version"`        // Version tag forwarded to the host app
	AnimatedStickerPack     bool      `json:"animated_sticker_pack"`     // Animated packs get larger size limits
	Stickers                []Sticker `json:"stickers"`                  // Ordered; order is preserved on delivery
	CreatedAt               time.Time `json:"created_at,omitempty"`
	Published               bool      `json:"published,omitempty"` // Set after a successful hand-off
}

// Sticker is a single image within a pack. A sticker has no identity beyond
// its file name within the pack.
type Sticker struct {
	ImageFileName string   `json:"image_file"` // Asset handle, resolved by the asset loader
	Emojis        []string `json:"emojis"`     // 1 to 3 emoji associated with the sticker
}

// Repository-level errors. Validation failures are reported through
// internal/validation's typed errors instead.
var (
	ErrPackNotFound      = errors.New("sticker pack not found")
	ErrPackAlreadyExists = errors.New("sticker pack already exists")
)

// NewStickerPack creates a pack with the fields every pack must carry.
// Optional fields are attached with the WithX builder methods.
func NewStickerPack(identifier, name, publisher, trayImageFile string) *StickerPack {
	return &StickerPack{
		Identifier:       identifier,
		Name:             name,
		Publisher:        publisher,
		TrayImageFile:    trayImageFile,
		ImageDataVersion: "1",
		CreatedAt:        time.Now(),
	}
}

// WithPublisherInfo sets the optional publisher contact fields.
func (p *StickerPack) WithPublisherInfo(email, website string) *StickerPack {
	p.PublisherEmail = email
	p.PublisherWebsite = website
	return p
}

// WithStoreLinks sets the optional app store links.
// The validator enforces the store domains, not this method.
func (p *StickerPack) WithStoreLinks(android, ios string) *StickerPack {
	p.AndroidPlayStoreLink = android
	p.IOSAppStoreLink = ios
	return p
}

// WithAnimated marks the pack as animated. Animated packs are allowed larger
// sticker files but every sticker is expected to be multi-frame.
func (p *StickerPack) WithAnimated(animated bool) *StickerPack {
	p.AnimatedStickerPack = animated
	return p
}

// AddSticker appends a sticker to the pack, preserving submission order.
func (p *StickerPack) AddSticker(imageFileName string, emojis ...string) *StickerPack {
	p.Stickers = append(p.Stickers, Sticker{ImageFileName: imageFileName, Emojis: emojis})
	return p
}

// StickerCount returns the number of stickers in the pack.
func (p *StickerPack) StickerCount() int {
	return len(p.Stickers)
}
