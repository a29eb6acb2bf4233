package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamNilotpal/cargo/cmd/cargo/metrics"
	"github.com/iamNilotpal/cargo/pkg/cargo"
	"github.com/iamNilotpal/cargo/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *cargo.Instance) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "container.cargo")

	instance, err := cargo.Open(context.Background(), path, 4096)
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close() })

	return New(instance, logger.Nop()), instance
}

func TestHandleOverwriteThenReadFile(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	putReq := httptest.NewRequest(http.MethodPut, "/files/a.txt", strings.NewReader("hello"))
	putRec := httptest.NewRecorder()
	handler.ServeHTTP(putRec, putReq)
	assert.Equal(t, http.StatusNoContent, putRec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/files/a.txt", nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, "hello", getRec.Body.String())
}

func TestHandleReadFileMissingReturns404(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/files/missing.txt", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListFiles(t *testing.T) {
	srv, instance := newTestServer(t)
	require.NoError(t, instance.CreateFile("a.txt", []byte("1")))
	require.NoError(t, instance.CreateFile("b.txt", []byte("2")))

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.txt")
	assert.Contains(t, rec.Body.String(), "b.txt")
}

func TestHandleDeleteFile(t *testing.T) {
	srv, instance := newTestServer(t)
	require.NoError(t, instance.CreateFile("a.txt", []byte("1")))

	req := httptest.NewRequest(http.MethodDelete, "/files/a.txt", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	exists, err := instance.FileExists("a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHandleAvailableSpace(t *testing.T) {
	srv, instance := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/space", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "availableBytes")

	want, err := instance.AvailableSpace()
	require.NoError(t, err)
	assert.Equal(t, float64(want), testutil.ToFloat64(metrics.Get().AvailableSpace))
}

func TestHandleFormat(t *testing.T) {
	srv, instance := newTestServer(t)
	require.NoError(t, instance.CreateFile("a.txt", []byte("1")))

	req := httptest.NewRequest(http.MethodPost, "/format", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	names, err := instance.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestHandleStreamReadsFullContent(t *testing.T) {
	srv, instance := newTestServer(t)
	require.NoError(t, instance.CreateFile("a.txt", []byte("streamed content")))

	req := httptest.NewRequest(http.MethodGet, "/files/a.txt?stream=1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "streamed content", rec.Body.String())
}

func TestHandleWebSocketUploadStreamsRecordInReservedThenPatchedFashion(t *testing.T) {
	srv, instance := newTestServer(t)

	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws/upload/streamed.bin"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	chunks := [][]byte{[]byte("hello "), []byte("streamed "), []byte("world")}
	for _, chunk := range chunks {
		require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, chunk))
	}

	// Closing the client side is what ends the server's read loop and
	// triggers the header patch + cursor publish; the server-side write
	// races the client's own teardown, so poll rather than read once.
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		exists, err := instance.FileExists("streamed.bin")
		return err == nil && exists
	}, time.Second, 10*time.Millisecond, "streamed record never became visible")

	content, err := instance.ReadFile("streamed.bin")
	require.NoError(t, err)
	assert.Equal(t, "hello streamed world", string(content))
}
