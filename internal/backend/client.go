// Package backend implements the client for the vault backend functions:
// upload sessions, blob upload, metadata creation and the list-all call.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/model"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL      string
	FunctionKey  string
	UserID       string
	Timeout      time.Duration
	ShowProgress bool
}

// Client talks to the backend function app.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	functionKey  string
	userID       string
	showProgress bool
}

// UploadSession is the response of the upload-session call. All three
// fields are required; their absence is a hard failure.
type UploadSession struct {
	CardID    string `json:"cardId"`
	UploadURL string `json:"uploadUrl"`
	BlobPath  string `json:"blobPath"`
}

// CreateItemRequest is the metadata-submission payload.
type CreateItemRequest struct {
	UserID      string         `json:"userid,omitempty"`
	ID          string         `json:"id"`
	Type        model.ItemType `json:"type"`
	BlobPath    string         `json:"blobPath"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	ExpiryDate  string         `json:"expiryDate,omitempty"`
	Amount      *float64       `json:"amount,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	ScannedData *string        `json:"scannedData"`
	DataType    *string        `json:"dataType"`
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: backend base URL is required", common.ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		functionKey:  cfg.FunctionKey,
		userID:       cfg.UserID,
		showProgress: cfg.ShowProgress,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// buildURL joins the base URL with a function path, appending the function
// key as a query parameter when configured.
func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	full := c.baseURL + path
	if c.functionKey == "" {
		return full
	}

	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + "code=" + url.QueryEscape(c.functionKey)
}

// CreateUploadSession requests a write-only upload URL for one image.
func (c *Client) CreateUploadSession(ctx context.Context) (UploadSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/UploadImage"), nil)
	if err != nil {
		return UploadSession{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadSession{}, fmt.Errorf("upload session request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadSession{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UploadSession{}, fmt.Errorf("%w (status %d): %s", common.ErrBackendUnavailable, resp.StatusCode, string(body))
	}

	var session UploadSession
	if err := json.Unmarshal(body, &session); err != nil {
		return UploadSession{}, fmt.Errorf("failed to parse upload session: %w", err)
	}

	if session.CardID == "" || session.UploadURL == "" || session.BlobPath == "" {
		return UploadSession{}, fmt.Errorf("upload session response missing cardId/uploadUrl/blobPath")
	}

	return session, nil
}

// UploadImage PUTs the image bytes at path to the session's upload URL.
func (c *Client) UploadImage(ctx context.Context, uploadURL, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not read local file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("could not stat local file: %w", err)
	}

	var body io.Reader = f
	if c.showProgress {
		bar := progressbar.DefaultBytes(info.Size(), "uploading")
		body = io.TeeReader(f, bar)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", contentTypeFor(path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blob upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w (status %d): %s", common.ErrUploadFailed, resp.StatusCode, string(respBody))
	}

	return nil
}

// CreateItem submits the metadata record referencing the stored image and
// returns the persisted record as echoed by the backend.
func (c *Client) CreateItem(ctx context.Context, item CreateItemRequest) (model.RemoteItem, error) {
	if item.UserID == "" {
		item.UserID = c.userID
	}

	jsonBody, err := json.Marshal(item)
	if err != nil {
		return model.RemoteItem{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/CreateCosmosVaultItem"), bytes.NewReader(jsonBody))
	if err != nil {
		return model.RemoteItem{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.RemoteItem{}, fmt.Errorf("metadata submission failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.RemoteItem{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.RemoteItem{}, fmt.Errorf("%w (status %d): %s", common.ErrBackendUnavailable, resp.StatusCode, string(body))
	}

	var created model.RemoteItem
	if err := json.Unmarshal(body, &created); err != nil {
		return model.RemoteItem{}, fmt.Errorf("failed to parse created item: %w", err)
	}

	return created, nil
}

// ListItems fetches every vault item of the current user. The response
// order is unspecified; callers re-sort.
func (c *Client) ListItems(ctx context.Context) ([]model.RemoteItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL("/GetAllVaultItems"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w (status %d): %s", common.ErrBackendUnavailable, resp.StatusCode, string(body))
	}

	var items []model.RemoteItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	slog.Debug("Fetched vault items", "count", len(items))

	return items, nil
}

// contentTypeFor guesses the blob content type from the file extension.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
