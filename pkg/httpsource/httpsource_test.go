package httpsource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvesNameFromContentDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pdf-bytes"))
	}))
	defer server.Close()

	src, err := New(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "report.pdf", src.NameHint())

	content, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(content))
}

func TestNewFallsBackToURIBasenameWithoutHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	src, err := New(context.Background(), server.Client(), server.URL+"/archive.zip")
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "archive.zip", src.NameHint())
}

func TestNewRejectsUnquotedFilenameForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename=unquoted.txt")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := New(context.Background(), server.Client(), server.URL)
	assert.Error(t, err)
}

func TestNewFailsOnNon200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(context.Background(), server.Client(), server.URL)
	assert.Error(t, err)
}

func TestLengthHintReflectsContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="x.bin"`)
		w.Header().Set("Content-Length", "3")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("abc"))
	}))
	defer server.Close()

	src, err := New(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	defer src.Close()

	length, known := src.LengthHint()
	assert.True(t, known)
	assert.Equal(t, int64(3), length)
}
