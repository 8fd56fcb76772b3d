package validation

import (
	"bytes"

	"golang.org/x/image/webp"
)

// ImageInfo is what an ImageProbe can tell the engine about sticker bytes.
// Zero values mean "unknown": the engine only applies a check when the probe
// actually reported the corresponding field, so a partial probe (for example
// one that reads dimensions but not animation frames) is usable.
type ImageInfo struct {
	Width  int
	Height int

	FrameCount       int   // 0 = unknown
	FrameDurationsMS []int // Per-frame durations, may be empty
	TotalDurationMS  int   // 0 = unknown
}

// ImageProbe is the deep-inspection capability for sticker assets.
// The engine calls it after the byte-size checks pass; the probe decodes the
// image and reports dimensions and animation timing. A nil result with a nil
// error means "no inspection performed", which skips the probe-dependent
// checks entirely.
type ImageProbe interface {
	Probe(data []byte) (*ImageInfo, error)
}

// NopProbe performs no inspection. It is the default probe; the
// codec-dependent checks are opt-in per deployment.
type NopProbe struct{}

func (NopProbe) Probe([]byte) (*ImageInfo, error) {
	return nil, nil
}

// WebPProbe reads WebP headers to report sticker dimensions. It does not
// demux animation frames - WebP animation metadata needs a full RIFF demuxer,
// which no maintained Go library provides - so frame fields stay unknown and
// the engine only applies the dimension check.
type WebPProbe struct{}

func (WebPProbe) Probe(data []byte) (*ImageInfo, error) {
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageInfo{Width: cfg.Width, Height: cfg.Height}, nil
}
