package validation

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"strings"
	"unicode/utf8"

	// Tray images may be PNG or JPEG; the webp format registers itself via
	// the probe's import of golang.org/x/image/webp.
	_ "image/jpeg"
	_ "image/png"

	"stickerpack-service/internal/domain"
	"stickerpack-service/pkg/validator"
)

// AssetLoader resolves a (pack identifier, asset handle) pair into raw bytes.
// The engine does not care whether the bytes come from disk, a cache or a
// remote blob - it only requires deterministic bytes within one validation
// call, and a non-nil error when the asset is missing or unreadable.
type AssetLoader interface {
	Fetch(ctx context.Context, packID, handle string) ([]byte, error)
}

// Asset handles may carry internal path-marker tokens instead of real path
// separators. Error messages substitute them back so internal naming never
// leaks to users.
var pathMarkers = strings.NewReplacer(
	"mzn_ad_", string(os.PathSeparator),
	"mzn_fd_", string(os.PathSeparator),
)

// Validator checks sticker packs against the receiving messaging app's
// content rules. It holds no state across calls: every ValidatePack call is
// a pure function of (pack, asset bytes), so one Validator may be shared by
// any number of goroutines.
//
// Checks run in a fixed order, cheapest first, and the first violated rule
// wins - the engine never accumulates errors. The order also matches the
// receiving app's own rejection order, which matters for message parity.
type Validator struct {
	limits Limits
	probe  ImageProbe
}

// New creates a Validator with the given limits. A nil probe disables the
// codec-dependent sticker inspection.
func New(limits Limits, probe ImageProbe) *Validator {
	if probe == nil {
		probe = NopProbe{}
	}
	return &Validator{limits: limits, probe: probe}
}

// ValidatePack checks every content rule for a pack, in order:
// identifier, publisher, name, tray handle, optional URLs and email,
// tray image bytes and dimensions, sticker count, then each sticker in
// sequence. It returns nil or the first *Error encountered. The pack is
// never mutated.
func (v *Validator) ValidatePack(ctx context.Context, pack *domain.StickerPack, loader AssetLoader) error {
	if pack.Identifier == "" {
		return newError(KindEmptyString, "sticker pack identifier is empty")
	}
	if utf8.RuneCountInString(pack.Identifier) > v.limits.CharCountMax {
		return newError(KindStringTooLong,
			"sticker pack identifier cannot exceed %d characters", v.limits.CharCountMax)
	}
	if err := v.checkIdentifier(pack.Identifier); err != nil {
		return err
	}

	if pack.Publisher == "" {
		return newError(KindEmptyString,
			"sticker pack publisher is empty, sticker pack identifier: %s", pack.Identifier)
	}
	if utf8.RuneCountInString(pack.Publisher) > v.limits.CharCountMax {
		return newError(KindStringTooLong,
			"sticker pack publisher cannot exceed %d characters, sticker pack identifier: %s",
			v.limits.CharCountMax, pack.Identifier)
	}
	if pack.Name == "" {
		return newError(KindEmptyString,
			"sticker pack name is empty, sticker pack identifier: %s", pack.Identifier)
	}
	if utf8.RuneCountInString(pack.Name) > v.limits.CharCountMax {
		return newError(KindStringTooLong,
			"sticker pack name cannot exceed %d characters, sticker pack identifier: %s",
			v.limits.CharCountMax, pack.Identifier)
	}
	if pack.TrayImageFile == "" {
		return newError(KindEmptyString,
			"sticker pack tray id is empty, sticker pack identifier: %s", pack.Identifier)
	}

	// Store links are checked syntax-then-domain, one link at a time, so a
	// malformed android link is reported before a perfectly fine ios link is
	// even looked at.
	if pack.AndroidPlayStoreLink != "" {
		if err := v.checkWebsiteURL(pack.AndroidPlayStoreLink, "android play store link"); err != nil {
			return err
		}
		if err := v.checkURLDomain(pack.AndroidPlayStoreLink, v.limits.PlayStoreDomain,
			"android play store link should use play store domain: %s"); err != nil {
			return err
		}
	}
	if pack.IOSAppStoreLink != "" {
		if err := v.checkWebsiteURL(pack.IOSAppStoreLink, "ios app store link"); err != nil {
			return err
		}
		if err := v.checkURLDomain(pack.IOSAppStoreLink, v.limits.AppleStoreDomain,
			"iOS app store link should use app store domain: %s"); err != nil {
			return err
		}
	}
	if pack.LicenseAgreementWebsite != "" {
		if err := v.checkWebsiteURL(pack.LicenseAgreementWebsite, "license agreement link"); err != nil {
			return err
		}
	}
	if pack.PrivacyPolicyWebsite != "" {
		if err := v.checkWebsiteURL(pack.PrivacyPolicyWebsite, "privacy policy link"); err != nil {
			return err
		}
	}
	if pack.PublisherWebsite != "" {
		if err := v.checkWebsiteURL(pack.PublisherWebsite, "publisher website link"); err != nil {
			return err
		}
	}

	if pack.PublisherEmail != "" {
		if err := validator.ValidateEmail(pack.PublisherEmail); err != nil {
			return newError(KindInvalidEmail,
				"publisher email does not seem valid, email is: %s", pack.PublisherEmail)
		}
	}

	if err := v.checkTrayImage(ctx, pack, loader); err != nil {
		return err
	}

	if len(pack.Stickers) < v.limits.StickerCountMin || len(pack.Stickers) > v.limits.StickerCountMax {
		return newError(KindOutsideAllowableRange,
			"sticker pack sticker count should be between %d to %d inclusive, it currently has %d, sticker pack identifier: %s",
			v.limits.StickerCountMin, v.limits.StickerCountMax, len(pack.Stickers), pack.Identifier)
	}

	for i := range pack.Stickers {
		if err := v.ValidateSticker(ctx, pack.Identifier, &pack.Stickers[i], pack.AnimatedStickerPack, loader); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSticker checks one sticker: emoji count, file name, then the
// asset bytes. Both "too many" and "too few" emojis report TooManyEmojis -
// the receiving app uses a single code for both boundaries, and callers
// pattern-match on it, so the merge is preserved on purpose.
func (v *Validator) ValidateSticker(ctx context.Context, identifier string, sticker *domain.Sticker, animated bool, loader AssetLoader) error {
	if len(sticker.Emojis) > v.limits.EmojiCountMax {
		return newError(KindTooManyEmojis,
			"emoji count exceed limit, sticker pack identifier: %s, filename: %s",
			identifier, sticker.ImageFileName)
	}
	if len(sticker.Emojis) < v.limits.EmojiCountMin {
		return newError(KindTooManyEmojis,
			"To provide best user experience, please associate at least 1 emoji to this sticker, sticker pack identifier: %s, filename: %s",
			identifier, sticker.ImageFileName)
	}
	if sticker.ImageFileName == "" {
		return newError(KindEmptyString,
			"no file path for sticker, sticker pack identifier: %s", identifier)
	}
	return v.ValidateStickerAsset(ctx, identifier, sticker.ImageFileName, animated, loader)
}

// ValidateStickerAsset checks the byte size of a sticker asset against the
// static or animated budget, then hands the bytes to the image probe for the
// optional codec-dependent checks.
func (v *Validator) ValidateStickerAsset(ctx context.Context, identifier, fileName string, animated bool, loader AssetLoader) error {
	data, err := loader.Fetch(ctx, identifier, fileName)
	if err != nil {
		return newError(KindFileNotFound,
			"cannot open sticker file: sticker pack identifier: %s, filename: %s",
			identifier, pathMarkers.Replace(fileName))
	}

	if !animated && len(data) > v.limits.StaticStickerFileLimitKB*KB {
		return newError(KindImageTooBig,
			"static sticker should be less than %dKB, current file is %d KB, sticker pack identifier: %s, filename: %s",
			v.limits.StaticStickerFileLimitKB, len(data)/KB, identifier, fileName)
	}
	if animated && len(data) > v.limits.AnimatedStickerFileLimitKB*KB {
		return newError(KindImageTooBig,
			"animated sticker should be less than %dKB, current file is %d KB, sticker pack identifier: %s, filename: %s",
			v.limits.AnimatedStickerFileLimitKB, len(data)/KB, identifier, fileName)
	}

	return v.probeStickerImage(identifier, fileName, animated, data)
}

// probeStickerImage runs the injectable deep-inspection checks. A probe that
// reports nothing (the default) skips them all; a partial probe only enables
// the checks for the fields it filled in.
func (v *Validator) probeStickerImage(identifier, fileName string, animated bool, data []byte) error {
	info, err := v.probe.Probe(data)
	if err != nil {
		return newError(KindUnsupportedImageFormat,
			"error parsing sticker image, sticker pack identifier: %s, filename: %s", identifier, fileName)
	}
	if info == nil {
		return nil
	}

	if info.Height != v.limits.StickerImageHeight {
		return newError(KindIncorrectImageSize,
			"sticker height should be %d, current height is %d, sticker pack identifier: %s, filename: %s",
			v.limits.StickerImageHeight, info.Height, identifier, fileName)
	}
	if info.Width != v.limits.StickerImageWidth {
		return newError(KindIncorrectImageSize,
			"sticker width should be %d, current width is %d, sticker pack identifier: %s, filename: %s",
			v.limits.StickerImageWidth, info.Width, identifier, fileName)
	}

	if info.FrameCount > 0 {
		if animated && info.FrameCount <= 1 {
			return newError(KindUnsupportedImageFormat,
				"this pack is marked as animated sticker pack, all stickers should animate, sticker pack identifier: %s, filename: %s",
				identifier, fileName)
		}
		if !animated && info.FrameCount > 1 {
			return newError(KindAnimatedImagesNotSupported,
				"this pack is not marked as animated sticker pack, all stickers should be static stickers, sticker pack identifier: %s, filename: %s",
				identifier, fileName)
		}
	}

	if animated {
		for _, frameMS := range info.FrameDurationsMS {
			if frameMS < v.limits.AnimationFrameDurationMinMS {
				return newError(KindOutsideAllowableRange,
					"animated sticker frame duration limit is %d, sticker pack identifier: %s, filename: %s",
					v.limits.AnimationFrameDurationMinMS, identifier, fileName)
			}
		}
		if info.TotalDurationMS > v.limits.AnimationTotalDurationMaxMS {
			return newError(KindOutsideAllowableRange,
				"sticker animation max duration is: %d ms, current duration is: %d ms, sticker pack identifier: %s, filename: %s",
				v.limits.AnimationTotalDurationMaxMS, info.TotalDurationMS, identifier, fileName)
		}
	}

	return nil
}

// checkTrayImage loads the tray icon and enforces its byte-size and pixel
// dimension bounds. The size check runs before decoding, so an oversized
// blob is rejected without paying for a decode.
func (v *Validator) checkTrayImage(ctx context.Context, pack *domain.StickerPack, loader AssetLoader) error {
	data, err := loader.Fetch(ctx, pack.Identifier, pack.TrayImageFile)
	if err != nil {
		return newError(KindFileNotFound,
			"Cannot open tray image, %s", pathMarkers.Replace(pack.TrayImageFile))
	}

	if len(data) > v.limits.TrayImageFileSizeMaxKB*KB {
		return newError(KindIncorrectImageSize,
			"tray image should be less than %d KB, tray image file: %s",
			v.limits.TrayImageFileSizeMaxKB, pack.TrayImageFile)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return newError(KindUnsupportedImageFormat,
			"cannot decode tray image, tray image file: %s", pack.TrayImageFile)
	}
	if cfg.Height > v.limits.TrayImageDimensionMax || cfg.Height < v.limits.TrayImageDimensionMin {
		return newError(KindIncorrectImageSize,
			"tray image height should be between %d and %d pixels, current tray image height is %d, tray image file: %s",
			v.limits.TrayImageDimensionMin, v.limits.TrayImageDimensionMax, cfg.Height, pack.TrayImageFile)
	}
	if cfg.Width > v.limits.TrayImageDimensionMax || cfg.Width < v.limits.TrayImageDimensionMin {
		return newError(KindIncorrectImageSize,
			"tray image width should be between %d and %d pixels, current tray image width is %d, tray image file: %s",
			v.limits.TrayImageDimensionMin, v.limits.TrayImageDimensionMax, cfg.Width, pack.TrayImageFile)
	}

	return nil
}

// checkIdentifier maps the leaf charset checks onto the error taxonomy.
// Both violations report KindOther - the receiving app has no dedicated
// code for identifier shape problems.
func (v *Validator) checkIdentifier(identifier string) error {
	switch err := validator.CheckIdentifier(identifier); {
	case errors.Is(err, validator.ErrInvalidCharacters):
		return newError(KindOther,
			"%s contains invalid characters, allowed characters are a to z, A to Z, _ , ' - . and space character",
			identifier)
	case errors.Is(err, validator.ErrDoubleDot):
		return newError(KindOther, "%s cannot contain ..", identifier)
	}
	return nil
}

// checkWebsiteURL maps the leaf URL syntax check onto the error taxonomy.
// fieldName names the offending link in the message ("android play store
// link", "privacy policy link", ...).
func (v *Validator) checkWebsiteURL(raw, fieldName string) error {
	switch err := validator.ValidateWebsiteURL(raw); {
	case errors.Is(err, validator.ErrMalformedURL):
		return newError(KindInvalidURL, "url: %s is malformed", raw)
	case errors.Is(err, validator.ErrSchemeNotHTTP):
		return newError(KindInvalidURL,
			"Make sure to include http or https in url links, %s is not a valid url: %s", fieldName, raw)
	}
	return nil
}

// checkURLDomain enforces the exact-host store domain rule.
func (v *Validator) checkURLDomain(raw, domain, format string) error {
	switch err := validator.ValidateURLInDomain(raw, domain); {
	case errors.Is(err, validator.ErrMalformedURL):
		return newError(KindInvalidURL, "url: %s is malformed", raw)
	case errors.Is(err, validator.ErrWrongDomain):
		return newError(KindInvalidURL, format, domain)
	}
	return nil
}
