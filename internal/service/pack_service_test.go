package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"stickerpack-service/internal/delivery"
	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

// MockPackRepository is a mock implementation of repository.PackRepository
type MockPackRepository struct {
	mock.Mock
}

func (m *MockPackRepository) Create(ctx context.Context, pack *domain.StickerPack) error {
	args := m.Called(ctx, pack)
	return args.Error(0)
}

func (m *MockPackRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.StickerPack, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StickerPack), args.Error(1)
}

func (m *MockPackRepository) List(ctx context.Context, limit, offset int) ([]*domain.StickerPack, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StickerPack), args.Error(1)
}

func (m *MockPackRepository) ExistsIdentifier(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackRepository) MarkPublished(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func (m *MockPackRepository) Delete(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.PackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByPackIdentifier(ctx context.Context, identifier string, limit, offset int) ([]*domain.PackEvent, error) {
	args := m.Called(ctx, identifier, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PackEvent), args.Error(1)
}

// MockDeliverer is a mock implementation of delivery.Client
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) AddPack(ctx context.Context, pack *domain.StickerPack) error {
	args := m.Called(ctx, pack)
	return args.Error(0)
}

// mapLoader serves asset bytes from memory; the service runs the real
// validation engine, so the assets have to actually pass.
type mapLoader struct {
	files map[string][]byte
}

func (l *mapLoader) Fetch(_ context.Context, packID, handle string) ([]byte, error) {
	data, ok := l.files[packID+"/"+handle]
	if !ok {
		return nil, errors.New("asset not found")
	}
	return data, nil
}

// ==================== HELPERS ====================

func testPack(t *testing.T) (*domain.StickerPack, *mapLoader) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 96, 96))))

	pack := domain.NewStickerPack("cute_cats", "Cute Cats", "Acme Studio", "tray.png")
	loader := &mapLoader{files: map[string][]byte{
		"cute_cats/tray.png": buf.Bytes(),
	}}
	for _, name := range []string{"happy.webp", "sad.webp", "wave.webp"} {
		pack.AddSticker(name, "\U0001F600")
		loader.files["cute_cats/"+name] = []byte("sticker bytes")
	}
	return pack, loader
}

func newServiceUnderTest(t *testing.T, loader validation.AssetLoader) (*PackService, *MockPackRepository, *MockEventRepository, *MockDeliverer) {
	t.Helper()
	packRepo := new(MockPackRepository)
	eventRepo := new(MockEventRepository)
	deliverer := new(MockDeliverer)
	v := validation.New(validation.DefaultLimits(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPackService(packRepo, eventRepo, v, loader, deliverer, logger)
	return svc, packRepo, eventRepo, deliverer
}

// ==================== TESTS ====================

func TestSubmitPack_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, eventRepo, _ := newServiceUnderTest(t, loader)

	packRepo.On("ExistsIdentifier", ctx, "cute_cats").Return(false, nil)
	packRepo.On("Create", ctx, pack).Return(nil)
	eventRepo.On("Create", ctx, mock.AnythingOfType("*domain.PackEvent")).Return(nil)

	// Act
	err := svc.SubmitPack(ctx, pack, "192.168.1.1", "test-agent")

	// Assert
	require.NoError(t, err)
	packRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestSubmitPack_IdentifierTaken(t *testing.T) {
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, _, _ := newServiceUnderTest(t, loader)

	packRepo.On("ExistsIdentifier", ctx, "cute_cats").Return(true, nil)

	err := svc.SubmitPack(ctx, pack, "192.168.1.1", "test-agent")

	assert.ErrorIs(t, err, domain.ErrPackAlreadyExists)
	packRepo.AssertNotCalled(t, "Create")
}

func TestSubmitPack_ValidationFailureBlocksStorage(t *testing.T) {
	ctx := context.Background()
	pack, loader := testPack(t)
	pack.Name = "" // violates a content rule
	svc, packRepo, _, _ := newServiceUnderTest(t, loader)

	packRepo.On("ExistsIdentifier", ctx, "cute_cats").Return(false, nil)

	err := svc.SubmitPack(ctx, pack, "192.168.1.1", "test-agent")

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.KindEmptyString, verr.Kind)
	packRepo.AssertNotCalled(t, "Create")
}

func TestSubmitPack_EventFailureDoesNotFailSubmit(t *testing.T) {
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, eventRepo, _ := newServiceUnderTest(t, loader)

	packRepo.On("ExistsIdentifier", ctx, "cute_cats").Return(false, nil)
	packRepo.On("Create", ctx, pack).Return(nil)
	eventRepo.On("Create", ctx, mock.AnythingOfType("*domain.PackEvent")).Return(errors.New("db down"))

	err := svc.SubmitPack(ctx, pack, "192.168.1.1", "test-agent")

	require.NoError(t, err)
}

func TestPublishPack_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, eventRepo, deliverer := newServiceUnderTest(t, loader)

	packRepo.On("GetByIdentifier", ctx, "cute_cats").Return(pack, nil)
	deliverer.On("AddPack", ctx, pack).Return(nil)
	packRepo.On("MarkPublished", ctx, "cute_cats").Return(nil)
	eventRepo.On("Create", ctx, mock.AnythingOfType("*domain.PackEvent")).Return(nil)

	// Act
	published, err := svc.PublishPack(ctx, "cute_cats", "192.168.1.1", "test-agent")

	// Assert
	require.NoError(t, err)
	assert.True(t, published.Published)
	packRepo.AssertExpectations(t)
	deliverer.AssertExpectations(t)
}

func TestPublishPack_NotFound(t *testing.T) {
	ctx := context.Background()
	_, loader := testPack(t)
	svc, packRepo, _, deliverer := newServiceUnderTest(t, loader)

	packRepo.On("GetByIdentifier", ctx, "missing_pack").Return(nil, domain.ErrPackNotFound)

	published, err := svc.PublishPack(ctx, "missing_pack", "192.168.1.1", "test-agent")

	assert.ErrorIs(t, err, domain.ErrPackNotFound)
	assert.Nil(t, published)
	deliverer.AssertNotCalled(t, "AddPack")
}

func TestPublishPack_RevalidatesBeforeDelivery(t *testing.T) {
	// A pack that was valid at submission can go stale, for example when its
	// asset bytes changed. Publish must catch that before the hand-off.
	ctx := context.Background()
	pack, loader := testPack(t)
	delete(loader.files, "cute_cats/happy.webp")
	svc, packRepo, _, deliverer := newServiceUnderTest(t, loader)

	packRepo.On("GetByIdentifier", ctx, "cute_cats").Return(pack, nil)

	_, err := svc.PublishPack(ctx, "cute_cats", "192.168.1.1", "test-agent")

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.KindFileNotFound, verr.Kind)
	deliverer.AssertNotCalled(t, "AddPack")
}

func TestPublishPack_DeliveryErrorPassedThrough(t *testing.T) {
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, _, deliverer := newServiceUnderTest(t, loader)

	bridgeErr := &delivery.Error{Code: delivery.CodeAlreadyAdded, Message: "pack already added"}
	packRepo.On("GetByIdentifier", ctx, "cute_cats").Return(pack, nil)
	deliverer.On("AddPack", ctx, pack).Return(bridgeErr)

	published, err := svc.PublishPack(ctx, "cute_cats", "192.168.1.1", "test-agent")

	// The coded error comes back unchanged so callers can pattern-match it.
	var derr *delivery.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, delivery.CodeAlreadyAdded, derr.Code)
	assert.Nil(t, published)
	packRepo.AssertNotCalled(t, "MarkPublished")
}

func TestPublishPack_MarkPublishedFailureStillSucceeds(t *testing.T) {
	// The bridge accepted the pack; a failed flag update is logged, not fatal.
	ctx := context.Background()
	pack, loader := testPack(t)
	svc, packRepo, eventRepo, deliverer := newServiceUnderTest(t, loader)

	packRepo.On("GetByIdentifier", ctx, "cute_cats").Return(pack, nil)
	deliverer.On("AddPack", ctx, pack).Return(nil)
	packRepo.On("MarkPublished", ctx, "cute_cats").Return(errors.New("db down"))
	eventRepo.On("Create", ctx, mock.AnythingOfType("*domain.PackEvent")).Return(nil)

	published, err := svc.PublishPack(ctx, "cute_cats", "192.168.1.1", "test-agent")

	require.NoError(t, err)
	assert.True(t, published.Published)
}

func TestListPacks_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	_, loader := testPack(t)
	svc, packRepo, _, _ := newServiceUnderTest(t, loader)

	packRepo.On("List", ctx, 50, 0).Return([]*domain.StickerPack{}, nil)

	// Zero, negative and oversized limits all fall back to the default.
	for _, limit := range []int{0, -5, 500} {
		_, err := svc.ListPacks(ctx, limit, -1)
		require.NoError(t, err)
	}
	packRepo.AssertExpectations(t)
}

func TestDeletePack_RecordsEvent(t *testing.T) {
	ctx := context.Background()
	_, loader := testPack(t)
	svc, packRepo, eventRepo, _ := newServiceUnderTest(t, loader)

	packRepo.On("Delete", ctx, "cute_cats").Return(nil)
	eventRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.PackEvent) bool {
		return e.PackIdentifier == "cute_cats" && e.Action == domain.ActionDelete
	})).Return(nil)

	err := svc.DeletePack(ctx, "cute_cats", "192.168.1.1", "test-agent")

	require.NoError(t, err)
	eventRepo.AssertExpectations(t)
}
