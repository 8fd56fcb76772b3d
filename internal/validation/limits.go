package validation

// Limits groups every numeric threshold the engine enforces. The values are
// dictated by the receiving messaging app's content rules; DefaultLimits
// returns them. Injecting Limits instead of hard-coding constants lets tests
// exercise boundary values without rebuilding the engine.
type Limits struct {
	CharCountMax int // Max character count of identifier, name and publisher (runes, not bytes)

	TrayImageFileSizeMaxKB int // Tray icon byte budget
	TrayImageDimensionMin  int // Tray icon min width/height in pixels
	TrayImageDimensionMax  int // Tray icon max width/height in pixels

	StaticStickerFileLimitKB   int // Per-sticker byte budget, static packs
	AnimatedStickerFileLimitKB int // Per-sticker byte budget, animated packs

	StickerCountMin int // Stickers per pack, inclusive lower bound
	StickerCountMax int // Stickers per pack, inclusive upper bound

	EmojiCountMin int // Emoji per sticker, inclusive lower bound
	EmojiCountMax int // Emoji per sticker, inclusive upper bound

	StickerImageWidth  int // Required sticker pixel width (probe-dependent)
	StickerImageHeight int // Required sticker pixel height (probe-dependent)

	AnimationFrameDurationMinMS int // Min duration of a single frame
	AnimationTotalDurationMaxMS int // Max total animation duration

	PlayStoreDomain  string // Required host of the android store link
	AppleStoreDomain string // Required host of the ios store link
}

// KB is the byte multiplier used for all the *KB limits.
const KB = 1024

// DefaultLimits returns the thresholds published by the receiving app.
func DefaultLimits() Limits {
	return Limits{
		CharCountMax:                128,
		TrayImageFileSizeMaxKB:      50,
		TrayImageDimensionMin:       24,
		TrayImageDimensionMax:       512,
		StaticStickerFileLimitKB:    100,
		AnimatedStickerFileLimitKB:  500,
		StickerCountMin:             3,
		StickerCountMax:             30,
		EmojiCountMin:               1,
		EmojiCountMax:               3,
		StickerImageWidth:           512,
		StickerImageHeight:          512,
		AnimationFrameDurationMinMS: 8,
		AnimationTotalDurationMaxMS: 10 * 1000,
		PlayStoreDomain:             "play.google.com",
		AppleStoreDomain:            "itunes.apple.com",
	}
}
