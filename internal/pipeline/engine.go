// Package pipeline implements the capture-to-record flow that turns a raw
// photo into a persisted, displayed vault item.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/model"
)

// State is the phase of a single pipeline run. Drafting is the only state
// that permits user-driven mutation of the in-flight record.
type State string

// Pipeline states.
const (
	StateIdle       State = "idle"
	StateCapturing  State = "capturing"
	StateScanning   State = "scanning"
	StateExtracting State = "extracting"
	StateDrafting   State = "drafting"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Engine orchestrates one capture flow at a time: acquire photo, optional
// scan, extraction, user drafting, then upload and metadata submission.
type Engine struct {
	photos    PhotoSource
	scanner   CodeScanner
	extractor Extractor
	editor    Editor
	uploader  Uploader
	items     Collection
	reminders Scheduler
	now       func() time.Time

	mu       sync.Mutex
	state    State
	inFlight bool
}

// New creates a capture engine with the given collaborators. The scanner
// and reminder scheduler may be nil; the corresponding steps are skipped.
func New(photos PhotoSource, scanner CodeScanner, extractor Extractor, editor Editor, uploader Uploader, items Collection, reminders Scheduler) *Engine {
	return &Engine{
		photos:    photos,
		scanner:   scanner,
		extractor: extractor,
		editor:    editor,
		uploader:  uploader,
		items:     items,
		reminders: reminders,
		now:       time.Now,
		state:     StateIdle,
	}
}

// State returns the current phase of the active (or last) run.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// begin claims the single-flight slot. A second Run while one is active
// is rejected instead of interleaved.
func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return false
	}
	e.inFlight = true
	e.state = StateCapturing
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
}

// Run executes one end-to-end capture attempt for the chosen item type.
//
// Steps run strictly in order and each suspends the flow until its
// collaborator resolves. Any failure before the collection append leaves
// the collection untouched; a reminder failure after a successful save is
// logged and swallowed. Failed is terminal per attempt; the caller may
// simply call Run again.
func (e *Engine) Run(ctx context.Context, itemType model.ItemType) (model.VaultItem, error) {
	if err := itemType.Validate(); err != nil {
		return model.VaultItem{}, err
	}
	if !e.begin() {
		return model.VaultItem{}, common.ErrRunInFlight
	}
	defer e.end()

	runID := uuid.NewString()
	slog.Info("Starting capture", "run_id", runID, "type", itemType)

	// Acquire photo. Aborting here has no side effects.
	photoPath, err := e.photos.Capture(ctx)
	if err != nil {
		if errors.Is(err, common.ErrCaptureAborted) {
			e.setState(StateIdle)
			return model.VaultItem{}, err
		}
		return model.VaultItem{}, e.fail(runID, "could not capture photo", err)
	}

	// Optional scan, only offered for types that carry a code.
	var scannedData, dataType string
	if itemType.Scannable() && e.scanner != nil {
		e.setState(StateScanning)
		scan, scanErr := e.scanner.Scan(ctx)
		if scanErr != nil {
			if errors.Is(scanErr, common.ErrCaptureAborted) {
				e.setState(StateIdle)
				return model.VaultItem{}, scanErr
			}
			return model.VaultItem{}, e.fail(runID, "could not scan code", scanErr)
		}
		if scan != nil {
			scannedData = scan.Data
			dataType = scan.Format
		}
	}

	// Extraction. A full-null result is fine; a failed call is not.
	e.setState(StateExtracting)
	meta, err := e.extractor.Extract(ctx, photoPath)
	if err != nil {
		return model.VaultItem{}, e.fail(runID, "could not analyze image", err)
	}

	// Draft assembly and user edits.
	e.setState(StateDrafting)
	draft := extract.Merge(meta, itemType, photoPath, scannedData, dataType, e.now())

	card, confirmed, err := e.editor.EditDraft(ctx, draft)
	if err != nil {
		return model.VaultItem{}, e.fail(runID, "draft editing failed", err)
	}
	if !confirmed {
		slog.Info("Capture abandoned at draft", "run_id", runID)
		e.setState(StateIdle)
		return model.VaultItem{}, common.ErrCaptureAborted
	}
	if err := card.Validate(); err != nil {
		return model.VaultItem{}, e.fail(runID, "invalid card", err)
	}

	// Submit: upload session, blob upload, metadata record, then append.
	e.setState(StateSubmitting)
	session, err := e.uploader.CreateUploadSession(ctx)
	if err != nil {
		return model.VaultItem{}, e.fail(runID, "could not start upload", err)
	}

	if err := e.uploader.UploadImage(ctx, session.UploadURL, photoPath); err != nil {
		return model.VaultItem{}, e.fail(runID, "could not upload image", err)
	}

	req := backend.CreateItemRequest{
		ID:          session.CardID,
		Type:        card.Type,
		BlobPath:    session.BlobPath,
		Title:       card.Title,
		Description: card.Description,
		ExpiryDate:  card.ExpiryDate,
		Amount:      &card.Amount,
		Currency:    card.Currency,
	}
	if card.ScannedData != "" {
		req.ScannedData = &card.ScannedData
		req.DataType = &card.DataType
	}

	if _, err := e.uploader.CreateItem(ctx, req); err != nil {
		// The uploaded blob is not rolled back; make the residue visible.
		slog.Warn("Metadata submission failed after upload; blob is orphaned",
			"run_id", runID,
			"blob_path", session.BlobPath)
		return model.VaultItem{}, e.fail(runID, "could not save vault item", err)
	}

	item := model.VaultItem{Card: &card}
	e.items.Append(item)

	// The save already succeeded; a reminder failure is logged only.
	if e.reminders != nil {
		expiry := card.ExpiresAt()
		if expiry.IsZero() {
			expiry = e.now()
		}
		if remErr := e.reminders.Schedule(ctx, expiry, card.Title); remErr != nil {
			slog.Warn("Failed to schedule expiry reminder",
				"run_id", runID,
				"title", card.Title,
				"error", remErr)
		}
	}

	e.setState(StateDone)
	slog.Info("Capture complete", "run_id", runID, "card_id", session.CardID, "title", card.Title)

	return item, nil
}

// fail marks the run failed and wraps the cause in a user-facing error.
func (e *Engine) fail(runID, msg string, err error) error {
	e.setState(StateFailed)
	slog.Error("Capture failed", "run_id", runID, "reason", msg, "error", err)
	return common.NewUserError(msg, fmt.Errorf("capture run %s: %w", runID, err))
}
