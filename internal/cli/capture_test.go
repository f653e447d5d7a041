package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duckhouse1/expira/internal/common"
)

func TestPhotoPromptBlankAborts(t *testing.T) {
	var out bytes.Buffer
	prompt := NewPhotoPrompt(strings.NewReader("\n"), &out)

	_, err := prompt.Capture(context.Background())
	assert.ErrorIs(t, err, common.ErrCaptureAborted)
}

func TestPhotoPromptReturnsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	var out bytes.Buffer
	prompt := NewPhotoPrompt(strings.NewReader(path+"\n"), &out)

	got, err := prompt.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestPhotoPromptPresetSkipsPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	var out bytes.Buffer
	prompt := NewPhotoPrompt(strings.NewReader(""), &out)
	prompt.Path = path

	got, err := prompt.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Empty(t, out.String())
}

func TestPhotoPromptMissingFile(t *testing.T) {
	var out bytes.Buffer
	prompt := NewPhotoPrompt(strings.NewReader("/does/not/exist.jpg\n"), &out)

	_, err := prompt.Capture(context.Background())
	assert.Error(t, err)
}

func TestPhotoPromptDirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	prompt := NewPhotoPrompt(strings.NewReader(dir+"\n"), &out)

	_, err := prompt.Capture(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestScanPromptBlankSkips(t *testing.T) {
	var out bytes.Buffer
	prompt := NewScanPrompt(strings.NewReader("\n"), &out)

	result, err := prompt.Scan(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestScanPromptReturnsCode(t *testing.T) {
	var out bytes.Buffer
	prompt := NewScanPrompt(strings.NewReader("1234-5678\n"), &out)

	result, err := prompt.Scan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "1234-5678", result.Data)
	assert.Equal(t, "qr", result.Format)
}

func TestScanPromptCustomFormat(t *testing.T) {
	var out bytes.Buffer
	prompt := NewScanPrompt(strings.NewReader("555\n"), &out)
	prompt.Format = "ean13"

	result, err := prompt.Scan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "ean13", result.Format)
}
