// Package server fronts one cargo container with an HTTP/WebSocket API,
// so non-Go clients can drive the same create/read/delete/list/defragment
// operations pkg/cargo exposes to a Go caller.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamNilotpal/cargo/cmd/cargo/metrics"
	"github.com/iamNilotpal/cargo/pkg/cargo"
	cargoerrors "github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// metricsHandler serves the process's Prometheus registry in the
// standard exposition format.
func metricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
}

// Server wraps one *cargo.Instance with HTTP handlers implementing the
// route table: listFiles, readFile/openReadChannel, overwriteFile,
// deleteFile, availableSpace, defragment, format, a WebSocket ingestion
// endpoint, and a Prometheus scrape endpoint.
type Server struct {
	instance *cargo.Instance
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

// New builds a Server bound to instance.
func New(instance *cargo.Instance, log *zap.SugaredLogger) *Server {
	return &Server{
		instance: instance,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the complete mux for this server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /files", s.wrap("/files", s.handleListFiles))
	mux.HandleFunc("GET /files/{name}", s.wrap("/files/{name}", s.handleReadFile))
	mux.HandleFunc("PUT /files/{name}", s.wrap("/files/{name}", s.handleOverwriteFile))
	mux.HandleFunc("DELETE /files/{name}", s.wrap("/files/{name}", s.handleDeleteFile))
	mux.HandleFunc("GET /space", s.wrap("/space", s.handleAvailableSpace))
	mux.HandleFunc("POST /defragment", s.wrap("/defragment", s.handleDefragment))
	mux.HandleFunc("POST /format", s.wrap("/format", s.handleFormat))
	mux.HandleFunc("GET /ws/upload/{name}", s.handleWebSocketUpload)
	mux.Handle("GET /metrics", metricsHandler())

	return mux
}

// wrap times a handler and records it against the Prometheus request
// metrics, tagging every response with its route for per-endpoint
// dashboards.
func (s *Server) wrap(route string, next func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	m := metrics.Get()
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.Observe(route, r.Method, http.StatusText(rec.status), time.Since(started).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.instance.ListFiles()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if r.URL.Query().Get("stream") == "1" {
		s.streamFile(w, name)
		return
	}

	content, err := s.instance.ReadFile(name)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.Get().BytesRead.Add(float64(len(content)))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) streamFile(w http.ResponseWriter, name string) {
	rc, err := s.instance.OpenReadChannel(name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Transfer-Encoding", "chunked")
	w.WriteHeader(http.StatusOK)

	n, _ := io.Copy(w, rc)
	metrics.Get().BytesRead.Add(float64(n))
}

func (s *Server) handleOverwriteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	content, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed reading request body", http.StatusBadRequest)
		return
	}

	if err := s.instance.OverwriteFile(name, content); err != nil {
		writeError(w, err)
		return
	}

	metrics.Get().BytesWritten.Add(float64(len(content)))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.instance.DeleteFile(name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAvailableSpace(w http.ResponseWriter, r *http.Request) {
	available, err := s.instance.AvailableSpace()
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.Get().AvailableSpace.Set(float64(available))
	writeJSON(w, http.StatusOK, map[string]int32{"availableBytes": available})
}

func (s *Server) handleDefragment(w http.ResponseWriter, r *http.Request) {
	if err := s.instance.Defragment(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	if err := s.instance.Format(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWebSocketUpload accepts binary frames over a WebSocket connection
// and drives pkg/cargo's reserve-then-patch streaming write path with
// them, so a large or slow upload never has to be buffered whole in the
// server's memory the way CreateFile/CopyFromPath/DownloadAndSave are.
func (s *Server) handleWebSocketUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("websocket upgrade failed", "name", name, "error", err)
		return
	}
	defer conn.Close()

	written, err := s.instance.IngestStream(&wsSource{name: name, conn: conn})
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	metrics.Get().BytesWritten.Add(float64(written))
	_ = conn.WriteJSON(map[string]any{"status": "ok", "name": name, "bytes": written})
}

// wsSource adapts a WebSocket connection's binary-message stream into a
// bytesource.Source: its length is never known up front, so it always
// takes spec.md §4.5's "unknown length" branch (admission falls back to
// len(name), and the header is reserved with a provisional content_len
// that IngestStream patches once the connection closes).
type wsSource struct {
	name string
	conn *websocket.Conn
	buf  []byte
}

func (s *wsSource) NameHint() string          { return s.name }
func (s *wsSource) LengthHint() (int64, bool) { return 0, false }

func (s *wsSource) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return 0, io.EOF
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		s.buf = data
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	code := cargoerrors.GetErrorCode(err)
	switch code {
	case cargoerrors.ErrorCodeFileNotFound:
		status = http.StatusNotFound
	case cargoerrors.ErrorCodeInvalidInput:
		status = http.StatusBadRequest
	case cargoerrors.ErrorCodeInsufficientSpace:
		status = http.StatusInsufficientStorage
	}

	writeJSON(w, status, map[string]string{"error": err.Error(), "code": string(code)})
}
