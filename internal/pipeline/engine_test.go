package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/vault"
)

func strPtr(s string) *string { return &s }

type engineParts struct {
	photos    *MockPhotoSource
	scanner   *MockScanner
	extractor *MockExtractor
	editor    *MockEditor
	uploader  *MockUploader
	store     *vault.Store
	scheduler *MockScheduler
}

func newTestEngine() (*Engine, *engineParts) {
	parts := &engineParts{
		photos:    &MockPhotoSource{Path: "/tmp/photo.jpg"},
		scanner:   &MockScanner{},
		extractor: &MockExtractor{},
		editor:    &MockEditor{Confirm: true},
		uploader: &MockUploader{
			Session: backend.UploadSession{
				CardID:    "card-1",
				UploadURL: "https://blob/up",
				BlobPath:  "users/u/card-1.jpg",
			},
		},
		store:     vault.NewStore(),
		scheduler: &MockScheduler{},
	}
	engine := New(parts.photos, parts.scanner, parts.extractor, parts.editor, parts.uploader, parts.store, parts.scheduler)
	return engine, parts
}

func TestEngineRunHappyPath(t *testing.T) {
	engine, parts := newTestEngine()
	parts.extractor.Meta = extract.Metadata{
		Title:     strPtr("Ikea card"),
		ExpiresOn: strPtr("2027-01-01"),
	}
	parts.scanner.Result = &ScanResult{Data: "code-9", Format: "qr"}

	item, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)

	require.NotNil(t, item.Card)
	assert.Equal(t, "Ikea card", item.Card.Title)
	assert.Equal(t, "code-9", item.Card.ScannedData)
	assert.Equal(t, StateDone, engine.State())

	// Item landed in the collection and the reminder was scheduled.
	assert.Equal(t, 1, parts.store.Len())
	require.Len(t, parts.scheduler.Titles, 1)
	assert.Equal(t, "Ikea card", parts.scheduler.Titles[0])

	// Submission used the session's identifiers.
	require.Len(t, parts.uploader.Created, 1)
	assert.Equal(t, "card-1", parts.uploader.Created[0].ID)
	assert.Equal(t, "users/u/card-1.jpg", parts.uploader.Created[0].BlobPath)
	assert.Equal(t, []string{"/tmp/photo.jpg"}, parts.uploader.Uploads)
}

func TestEngineRunAllNullExtractionStillSucceeds(t *testing.T) {
	engine, parts := newTestEngine()
	parts.scanner.Result = nil // user skipped the scan

	item, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultTitle, item.Card.Title)
	assert.Equal(t, 0.0, item.Card.Amount)
	assert.Equal(t, StateDone, engine.State())
}

func TestEngineRunRejectsInvalidType(t *testing.T) {
	engine, parts := newTestEngine()

	_, err := engine.Run(context.Background(), model.ItemType("giftcard"))
	require.Error(t, err)
	assert.Equal(t, 0, parts.store.Len())
}

func TestEngineRunCaptureAborted(t *testing.T) {
	engine, parts := newTestEngine()
	parts.photos.Err = common.ErrCaptureAborted

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.ErrorIs(t, err, common.ErrCaptureAborted)

	// Aborting is not a failure and has no side effects.
	assert.Equal(t, StateIdle, engine.State())
	assert.Equal(t, 0, parts.store.Len())
	assert.Empty(t, parts.uploader.Uploads)
}

func TestEngineRunScanOnlyForScannableTypes(t *testing.T) {
	engine, parts := newTestEngine()

	_, err := engine.Run(context.Background(), model.TypeEmail)
	require.NoError(t, err)
	assert.Equal(t, 0, parts.scanner.Calls)

	engine2, parts2 := newTestEngine()
	_, err = engine2.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)
	assert.Equal(t, 1, parts2.scanner.Calls)
}

func TestEngineRunExtractionFailure(t *testing.T) {
	engine, parts := newTestEngine()
	parts.extractor.Err = errors.New("vision service down")

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.Error(t, err)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, StateFailed, engine.State())
	assert.Equal(t, 0, parts.store.Len())
}

func TestEngineRunDraftAbandoned(t *testing.T) {
	engine, parts := newTestEngine()
	parts.editor.Confirm = false

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.ErrorIs(t, err, common.ErrCaptureAborted)

	assert.Equal(t, StateIdle, engine.State())
	assert.Equal(t, 0, parts.store.Len())
	assert.Empty(t, parts.uploader.Uploads)
}

func TestEngineRunEditorChangesDraft(t *testing.T) {
	engine, parts := newTestEngine()
	parts.editor.Transform = func(card model.ItemCard) model.ItemCard {
		card.Title = "Renamed"
		card.Amount = 75
		return card
	}

	item, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Card.Title)
	assert.Equal(t, 75.0, item.Card.Amount)

	// The editor saw the assembled draft.
	require.Len(t, parts.editor.Drafts, 1)
	assert.Equal(t, model.DefaultTitle, parts.editor.Drafts[0].Title)
}

func TestEngineRunUploadSessionFailure(t *testing.T) {
	engine, parts := newTestEngine()
	parts.uploader.SessionErr = errors.New("backend down")

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.Error(t, err)
	assert.Equal(t, StateFailed, engine.State())
	assert.Equal(t, 0, parts.store.Len())
}

func TestEngineRunCreateItemFailureLeavesCollectionUntouched(t *testing.T) {
	engine, parts := newTestEngine()
	parts.uploader.CreateErr = errors.New("cosmos write failed")

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.Error(t, err)

	// Blob was uploaded but the record failed; nothing is appended.
	assert.Equal(t, []string{"/tmp/photo.jpg"}, parts.uploader.Uploads)
	assert.Equal(t, 0, parts.store.Len())
	assert.Equal(t, StateFailed, engine.State())
	assert.Empty(t, parts.scheduler.Titles)
}

func TestEngineRunReminderFailureDoesNotFailSave(t *testing.T) {
	engine, parts := newTestEngine()
	parts.scheduler.Err = errors.New("reminder queue broken")

	item, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)
	require.NotNil(t, item.Card)
	assert.Equal(t, StateDone, engine.State())
	assert.Equal(t, 1, parts.store.Len())
}

func TestEngineRunNilSchedulerSkipsReminder(t *testing.T) {
	_, parts := newTestEngine()
	engine := New(parts.photos, parts.scanner, parts.extractor, parts.editor, parts.uploader, parts.store, nil)

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)
	assert.Equal(t, StateDone, engine.State())
}

func TestEngineRunSingleFlight(t *testing.T) {
	engine, parts := newTestEngine()

	started := make(chan struct{})
	release := make(chan struct{})
	parts.editor.Transform = func(card model.ItemCard) model.ItemCard {
		close(started)
		<-release
		return card
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = engine.Run(context.Background(), model.TypeGiftCard)
	}()

	<-started
	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.ErrorIs(t, err, common.ErrRunInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// A finished run frees the slot.
	parts.editor.Transform = nil
	_, err = engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)
}

func TestEngineRunSchedulesReminderAtExpiry(t *testing.T) {
	engine, parts := newTestEngine()
	parts.extractor.Meta = extract.Metadata{
		ExpiresOn: strPtr("2027-06-01"),
	}

	_, err := engine.Run(context.Background(), model.TypeGiftCard)
	require.NoError(t, err)

	require.Len(t, parts.scheduler.Expires, 1)
	want := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, parts.scheduler.Expires[0].Equal(want))
}
