package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/pipeline"
)

// PhotoPrompt acquires the capture photo by asking for a local image
// path. A fixed path can be preset to skip the prompt entirely.
type PhotoPrompt struct {
	writer io.Writer
	reader *NonBlockingReader
	// Path, when non-empty, is used directly without prompting.
	Path string
}

// NewPhotoPrompt creates a photo prompt.
func NewPhotoPrompt(reader io.Reader, writer io.Writer) *PhotoPrompt {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &PhotoPrompt{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Capture returns a local image path. An empty answer aborts the run.
func (p *PhotoPrompt) Capture(ctx context.Context) (string, error) {
	path := p.Path
	if path == "" {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Image path (blank to cancel)")); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		path = strings.TrimSpace(line)
	}

	if path == "" {
		return "", common.ErrCaptureAborted
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot read image %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image path %q is a directory", path)
	}

	return path, nil
}

// ScanPrompt offers the optional code entry for scannable item types.
// An empty answer skips the scan without aborting the run.
type ScanPrompt struct {
	writer io.Writer
	reader *NonBlockingReader
	// Format labels the entered payload; defaults to "qr".
	Format string
}

// NewScanPrompt creates a scan prompt.
func NewScanPrompt(reader io.Reader, writer io.Writer) *ScanPrompt {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &ScanPrompt{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Scan asks for the code payload. Blank input means the scan is skipped.
func (p *ScanPrompt) Scan(ctx context.Context) (*pipeline.ScanResult, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Card code (blank to skip)")); err != nil {
		return nil, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return nil, err
	}

	data := strings.TrimSpace(line)
	if data == "" {
		return nil, nil
	}

	format := p.Format
	if format == "" {
		format = "qr"
	}

	return &pipeline.ScanResult{Data: data, Format: format}, nil
}
