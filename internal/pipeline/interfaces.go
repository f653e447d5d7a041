package pipeline

import (
	"context"
	"time"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/model"
)

// ScanResult carries an optional QR/barcode payload and its symbology.
type ScanResult struct {
	Data   string
	Format string
}

// PhotoSource acquires a photo and returns a local image reference.
// Returning common.ErrCaptureAborted means the user closed the capture
// with no side effects.
type PhotoSource interface {
	Capture(ctx context.Context) (string, error)
}

// CodeScanner offers the optional QR/barcode scan. A nil result means the
// user skipped the scan.
type CodeScanner interface {
	Scan(ctx context.Context) (*ScanResult, error)
}

// Extractor derives structured metadata from a local image.
type Extractor interface {
	Extract(ctx context.Context, path string) (extract.Metadata, error)
}

// Editor lets the user review and edit the draft card before submission.
// confirmed=false abandons the run without side effects.
type Editor interface {
	EditDraft(ctx context.Context, draft model.ItemCard) (card model.ItemCard, confirmed bool, err error)
}

// Uploader is the slice of the backend client the pipeline needs.
type Uploader interface {
	CreateUploadSession(ctx context.Context) (backend.UploadSession, error)
	UploadImage(ctx context.Context, uploadURL, path string) error
	CreateItem(ctx context.Context, item backend.CreateItemRequest) (model.RemoteItem, error)
}

// Collection receives the finished item. Satisfied by vault.Store.
type Collection interface {
	Append(item model.VaultItem)
}

// Scheduler schedules an expiry reminder. Failures here never fail the
// save; they are logged only.
type Scheduler interface {
	Schedule(ctx context.Context, expiry time.Time, title string) error
}
