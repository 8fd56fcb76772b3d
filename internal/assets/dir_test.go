package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, baseDir, packID, handle string, data []byte) {
	t.Helper()
	dir := filepath.Join(baseDir, packID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, handle), data, 0o644))
}

func TestDirLoader_Fetch(t *testing.T) {
	// Arrange
	baseDir := t.TempDir()
	writeAsset(t, baseDir, "cute_cats", "tray.png", []byte("png bytes"))
	loader := NewDirLoader(baseDir)

	// Act
	data, err := loader.Fetch(context.Background(), "cute_cats", "tray.png")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
}

func TestDirLoader_FetchMissing(t *testing.T) {
	loader := NewDirLoader(t.TempDir())

	_, err := loader.Fetch(context.Background(), "cute_cats", "ghost.webp")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirLoader_RejectsTraversal(t *testing.T) {
	// A file outside the pack directories must be unreachable no matter how
	// the components are shaped.
	baseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "secret.txt"), []byte("secret"), 0o644))
	loader := NewDirLoader(baseDir)

	tests := []struct {
		name           string
		packID, handle string
	}{
		{"dotdot pack", "..", "secret.txt"},
		{"dotdot handle", "cute_cats", ".."},
		{"slash in handle", "cute_cats", "../secret.txt"},
		{"backslash in handle", "cute_cats", `..\secret.txt`},
		{"dot pack", ".", "secret.txt"},
		{"empty handle", "cute_cats", ""},
		{"embedded dotdot", "cute_cats", "a..b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Fetch(context.Background(), tt.packID, tt.handle)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDirLoader_CancelledContext(t *testing.T) {
	baseDir := t.TempDir()
	writeAsset(t, baseDir, "cute_cats", "tray.png", []byte("png bytes"))
	loader := NewDirLoader(baseDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Fetch(ctx, "cute_cats", "tray.png")

	assert.ErrorIs(t, err, context.Canceled)
}
