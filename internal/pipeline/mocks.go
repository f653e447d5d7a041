package pipeline

import (
	"context"
	"time"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/model"
)

// MockPhotoSource returns a fixed path or error.
type MockPhotoSource struct {
	Err  error
	Path string
}

// Capture implements PhotoSource.
func (m *MockPhotoSource) Capture(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Path, nil
}

// MockScanner returns a fixed scan result (nil = skipped) or error.
type MockScanner struct {
	Err    error
	Result *ScanResult
	Calls  int
}

// Scan implements CodeScanner.
func (m *MockScanner) Scan(_ context.Context) (*ScanResult, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockExtractor returns fixed metadata or an error.
type MockExtractor struct {
	Err  error
	Meta extract.Metadata
}

// Extract implements Extractor.
func (m *MockExtractor) Extract(_ context.Context, _ string) (extract.Metadata, error) {
	if m.Err != nil {
		return extract.Metadata{}, m.Err
	}
	return m.Meta, nil
}

// MockEditor optionally rewrites the draft and confirms or abandons it.
type MockEditor struct {
	Err       error
	Transform func(model.ItemCard) model.ItemCard
	Confirm   bool
	Drafts    []model.ItemCard
}

// EditDraft implements Editor.
func (m *MockEditor) EditDraft(_ context.Context, draft model.ItemCard) (model.ItemCard, bool, error) {
	m.Drafts = append(m.Drafts, draft)
	if m.Err != nil {
		return model.ItemCard{}, false, m.Err
	}
	if m.Transform != nil {
		draft = m.Transform(draft)
	}
	return draft, m.Confirm, nil
}

// MockUploader records calls and fails on demand per step.
type MockUploader struct {
	SessionErr error
	UploadErr  error
	CreateErr  error
	Session    backend.UploadSession
	Created    []backend.CreateItemRequest
	Uploads    []string
}

// CreateUploadSession implements Uploader.
func (m *MockUploader) CreateUploadSession(_ context.Context) (backend.UploadSession, error) {
	if m.SessionErr != nil {
		return backend.UploadSession{}, m.SessionErr
	}
	return m.Session, nil
}

// UploadImage implements Uploader.
func (m *MockUploader) UploadImage(_ context.Context, _, path string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Uploads = append(m.Uploads, path)
	return nil
}

// CreateItem implements Uploader.
func (m *MockUploader) CreateItem(_ context.Context, item backend.CreateItemRequest) (model.RemoteItem, error) {
	if m.CreateErr != nil {
		return model.RemoteItem{}, m.CreateErr
	}
	m.Created = append(m.Created, item)
	return model.RemoteItem{ID: item.ID, Type: string(item.Type), Title: item.Title}, nil
}

// MockScheduler records reminder calls and fails on demand.
type MockScheduler struct {
	Err     error
	Expires []time.Time
	Titles  []string
}

// Schedule implements Scheduler.
func (m *MockScheduler) Schedule(_ context.Context, expiry time.Time, title string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Expires = append(m.Expires, expiry)
	m.Titles = append(m.Titles, title)
	return nil
}
