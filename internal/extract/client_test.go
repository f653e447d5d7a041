package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duckhouse1/expira/internal/common"
)

func writeTestImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0600))
	return path
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClientExtract(t *testing.T) {
	var gotKey string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-functions-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"from": null,
			"store": "Ikea",
			"amount": {"value": 250, "currency": "DKK"},
			"expiresOn": "2027-06-01",
			"title": "Ikea card"
		}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL, FunctionKey: "secret"})
	require.NoError(t, err)

	meta, err := client.Extract(context.Background(), writeTestImage(t, "card.png"))
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.True(t, strings.HasPrefix(gotBody["imageDataUrl"], "data:image/png;base64,"))

	assert.Nil(t, meta.From)
	require.NotNil(t, meta.Store)
	assert.Equal(t, "Ikea", *meta.Store)
	require.NotNil(t, meta.Amount.Value)
	assert.Equal(t, 250.0, *meta.Amount.Value)
	require.NotNil(t, meta.Title)
	assert.Equal(t, "Ikea card", *meta.Title)
}

func TestClientExtractAllNull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"from":null,"store":null,"amount":{"value":null,"currency":null},"expiresOn":null,"title":null}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	meta, err := client.Extract(context.Background(), writeTestImage(t, "card.jpg"))
	require.NoError(t, err)
	assert.Equal(t, Metadata{}, meta)
}

func TestClientExtractServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), writeTestImage(t, "card.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "503")
}

func TestClientExtractUnexpectedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"surprise": true}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), writeTestImage(t, "card.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "expected shape")
}

func TestClientExtractMissingFile(t *testing.T) {
	client, err := NewClient(Config{URL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), "/nonexistent/image.jpg")
	assert.Error(t, err)
}

func TestImageDataURLMime(t *testing.T) {
	png := writeTestImage(t, "a.PNG")
	jpg := writeTestImage(t, "b.jpeg")

	url, err := imageDataURL(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	url, err = imageDataURL(jpg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}
