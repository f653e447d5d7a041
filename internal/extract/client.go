// Package extract provides the client for the AI vision extraction service
// and the merge of its nullable results into a draft vault card.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Duckhouse1/expira/internal/common"
)

// Metadata is the structured extraction result. Every leaf is nullable;
// nil means "not confidently extracted" and never fails the capture flow.
type Metadata struct {
	From      *string `json:"from"`
	Store     *string `json:"store"`
	Amount    Amount  `json:"amount"`
	ExpiresOn *string `json:"expiresOn"`
	Title     *string `json:"title"`
}

// Amount is the extracted monetary value with its currency.
type Amount struct {
	Value    *float64 `json:"value"`
	Currency *string  `json:"currency"`
}

// Config holds the extraction service settings.
type Config struct {
	URL         string
	FunctionKey string
	Timeout     time.Duration
}

// Client calls the extraction service over HTTP.
type Client struct {
	httpClient  *http.Client
	url         string
	functionKey string
}

// NewClient creates an extraction client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: extraction URL is required", common.ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		url:         cfg.URL,
		functionKey: cfg.FunctionKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Extract sends the image at path to the extraction service and returns
// the structured metadata. A non-2xx status or a response that does not
// match the expected shape is a hard failure for the call.
func (c *Client) Extract(ctx context.Context, path string) (Metadata, error) {
	dataURL, err := imageDataURL(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read image: %w", err)
	}

	requestBody := map[string]string{
		"imageDataUrl": dataURL,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.functionKey != "" {
		req.Header.Set("x-functions-key", c.functionKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Metadata{}, fmt.Errorf("%w (status %d): %s", common.ErrExtractionFailed, resp.StatusCode, string(body))
	}

	var meta Metadata
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: response does not match expected shape: %v", common.ErrExtractionFailed, err)
	}

	return meta, nil
}

// imageDataURL converts a local image file into a base64 data URL.
func imageDataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mime = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw)), nil
}
