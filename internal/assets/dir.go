package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stickerpack-service/internal/metrics"
)

// DirLoader reads assets from a directory tree laid out as
// <baseDir>/<packID>/<handle>. It is the canonical byte source; the redis
// cache decorates it.
type DirLoader struct {
	baseDir string
}

// NewDirLoader creates a filesystem loader rooted at baseDir.
func NewDirLoader(baseDir string) *DirLoader {
	return &DirLoader{baseDir: baseDir}
}

// Fetch reads the asset bytes from disk. Missing files and unreadable files
// both map to ErrNotFound - the validation engine does not distinguish them.
func (l *DirLoader) Fetch(ctx context.Context, packID, handle string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.AssetFetchDuration.WithLabelValues("dir").Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pack IDs and handles are caller-supplied; never let them escape the
	// base directory.
	if !safeComponent(packID) || !safeComponent(handle) {
		return nil, fmt.Errorf("%w: unsafe asset path %s/%s", ErrNotFound, packID, handle)
	}

	path := filepath.Join(l.baseDir, packID, handle)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return data, nil
}

// safeComponent rejects path components that could traverse outside the
// base directory.
func safeComponent(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	return !strings.Contains(s, "..")
}
