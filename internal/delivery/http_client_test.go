package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stickerpack-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bridgePack() *domain.StickerPack {
	pack := domain.NewStickerPack("cute_cats", "Cute Cats", "Acme Studio", "tray.png")
	pack.AddSticker("happy.webp", "\U0001F600")
	pack.AddSticker("sad.webp", "\U0001F622")
	pack.AddSticker("wave.webp", "\U0001F44B")
	return pack
}

func TestAddPack_Success(t *testing.T) {
	// Arrange: a bridge that accepts the pack and records the payload.
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{"added": true})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, testLogger())

	// Act
	err := client.AddPack(context.Background(), bridgePack())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cute_cats", received["identifier"])
	assert.Equal(t, "tray.png", received["trayImageFileName"])
	stickers, ok := received["stickers"].([]any)
	require.True(t, ok)
	require.Len(t, stickers, 3)
	// Sticker order is part of the contract.
	first := stickers[0].(map[string]any)
	assert.Equal(t, "happy.webp", first["imageFileName"])
}

func TestAddPack_CodedRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "ALREADY_ADDED", "message": "pack already added"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, testLogger())

	err := client.AddPack(context.Background(), bridgePack())

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeAlreadyAdded, derr.Code)
	assert.Equal(t, "pack already added", derr.Message)
	assert.True(t, IsAlreadyAdded(err))
	assert.False(t, IsCancelled(err))
}

func TestAddPack_UnknownCodePassedThrough(t *testing.T) {
	// The bridge may grow codes this service has never heard of; they must
	// survive the round trip unchanged.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "QUOTA_EXCEEDED", "message": "too many packs"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, testLogger())

	err := client.AddPack(context.Background(), bridgePack())

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "QUOTA_EXCEEDED", derr.Code)
}

func TestAddPack_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "CANCELLED", "message": "user cancelled"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, testLogger())

	err := client.AddPack(context.Background(), bridgePack())

	assert.True(t, IsCancelled(err))
}

func TestAddPack_TransportError(t *testing.T) {
	// A dead endpoint is a plain error, not a coded bridge rejection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, time.Second, testLogger())

	err := client.AddPack(context.Background(), bridgePack())

	require.Error(t, err)
	var derr *Error
	assert.False(t, errors.As(err, &derr))
}

func TestAddPack_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, testLogger())

	err := client.AddPack(context.Background(), bridgePack())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode bridge response")
}
