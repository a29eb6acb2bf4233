// Package cargo is the public entry point for the container filesystem:
// a fixed-size backing file storing named binary blobs. It mirrors the
// facade operations spec.md §6 lists 1:1, and adds the two supplemental
// ingestion paths (§12.3) — copying from an ambient-OS file and
// downloading from an HTTP-style source — on top of the core create/
// read/delete/list primitives internal/container provides.
//
// Open is a singleton-by-path constructor: calling Open twice for the
// same cleaned absolute path returns the same *Instance rather than a
// second handle racing the first over one backing file, since the
// Container's single sync.RWMutex only protects operations that go
// through the same Container value.
package cargo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/iamNilotpal/cargo/internal/compaction"
	"github.com/iamNilotpal/cargo/internal/container"
	"github.com/iamNilotpal/cargo/pkg/bytesource"
	"github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/iamNilotpal/cargo/pkg/filesource"
	"github.com/iamNilotpal/cargo/pkg/httpsource"
	"github.com/iamNilotpal/cargo/pkg/logger"
	"github.com/iamNilotpal/cargo/pkg/options"
	"go.uber.org/zap"
)

var registry sync.Map // cleaned absolute path -> *Instance

// Instance is a handle to one open container. It composes the core
// coordinator with the background defragmenter and exposes the
// facade operations a driver calls. refCount tracks how many Open calls
// share this Instance, so Close only tears the container down once the
// last caller releases it.
type Instance struct {
	container  *container.Container
	compaction *compaction.Compaction
	options    *options.Options
	refCount   int32
}

// Open creates or opens the container at path with the given capacity
// (ignored if the file already exists, since capacity is immutable after
// format), applies any functional options, and returns a process-wide
// singleton *Instance for that path: a second Open call for the same
// path returns the first call's Instance, reference-counted, rather than
// opening the backing file twice.
func Open(ctx context.Context, path string, capacity int32, opts ...options.OptionFunc) (*Instance, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to resolve container path").WithPath(path)
	}

	if existing, ok := registry.Load(abs); ok {
		instance := existing.(*Instance)
		atomic.AddInt32(&instance.refCount, 1)
		return instance, nil
	}

	opt := options.NewDefaultOptions()
	opt.Path = abs
	opt.Capacity = capacity
	for _, o := range opts {
		o(&opt)
	}

	log := logger.New(fmt.Sprintf("cargo[%s]", filepath.Base(abs)))

	cont, err := container.Open(&container.Config{Options: &opt, Logger: log})
	if err != nil {
		return nil, err
	}

	comp := compaction.New(opt.AutoDefragInterval, log)
	comp.Start(cont)

	instance := &Instance{container: cont, compaction: comp, options: &opt, refCount: 1}

	actual, loaded := registry.LoadOrStore(abs, instance)
	if loaded {
		// Lost the race to open the same path; discard ours and use theirs.
		comp.Stop()
		_ = cont.Close()
		existing := actual.(*Instance)
		atomic.AddInt32(&existing.refCount, 1)
		return existing, nil
	}

	return instance, nil
}

// Close releases this caller's reference. Only when the last reference is
// released does Close stop the background defragmenter, close the
// backing file, and remove the path from the process-wide registry.
func (i *Instance) Close() error {
	if atomic.AddInt32(&i.refCount, -1) > 0 {
		return nil
	}

	i.compaction.Stop()
	err := i.container.Close()
	registry.Delete(i.options.Path)
	return err
}

// CreateFile implements createFile(name) / createFile(name, bytes).
func (i *Instance) CreateFile(name string, content []byte) error {
	return i.container.Create(name, content)
}

// CopyFromPath implements copyFromPath(path): ingest an ambient-OS file,
// using its basename as the record name.
func (i *Instance) CopyFromPath(path string) error {
	src, err := filesource.New(path)
	if err != nil {
		return err
	}
	defer src.Close()

	return i.ingest(src)
}

// DownloadAndSave implements downloadAndSave(uri): ingest from an
// HTTP-like source, extracting the filename from Content-Disposition
// (falling back to the URI's last path segment). Each call is tagged
// with a correlation ID so a slow or failing download can be traced
// through logs without threading a request ID through every layer.
func (i *Instance) DownloadAndSave(ctx context.Context, uri string) error {
	id := correlationID()
	i.container.Logger().Debugw("downloadAndSave starting", "correlationId", id, "uri", uri)

	src, err := httpsource.New(ctx, http.DefaultClient, uri)
	if err != nil {
		return err
	}
	defer src.Close()

	return i.ingest(src)
}

// ingest reads a bytesource.Source fully and appends it as a new record.
// Per spec.md §4.5, a stream whose length is unknown up front is
// buffered completely before its header is written (option (a) of the
// two permitted strategies); the admission check then uses the actual
// buffered length rather than a provisional guess.
func (i *Instance) ingest(src bytesource.Source) error {
	content, err := readAll(src)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed reading source stream")
	}

	return i.container.Create(src.NameHint(), content)
}

// IngestStream implements the other spec.md §4.5 permitted strategy for
// a network-style source: option (b), reserve the header and patch it
// in place once the stream ends, rather than buffering the whole
// payload in memory first. This is what distinguishes a live upload
// (cmd/cargo/server's WebSocket endpoint, where the final size is not
// known up front and may be large) from CopyFromPath/DownloadAndSave's
// buffer-first ingest above.
func (i *Instance) IngestStream(src bytesource.Source) (int64, error) {
	sizeHint := int64(-1)
	if length, known := src.LengthHint(); known {
		sizeHint = length
	}

	return i.container.CreateStream(src.NameHint(), sizeHint, src)
}

func readAll(src bytesource.Source) ([]byte, error) {
	var buf []byte
	if length, known := src.LengthHint(); known {
		buf = make([]byte, 0, length)
	}

	tmp := make([]byte, 32*1024)
	for {
		n, err := src.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				return buf, nil
			}
			return buf, err
		}
	}
}

// OverwriteFile implements overwriteFile(name, bytes).
func (i *Instance) OverwriteFile(name string, content []byte) error {
	return i.container.Overwrite(name, content)
}

// ReadFile implements readFile(name).
func (i *Instance) ReadFile(name string) ([]byte, error) {
	return i.container.ReadFile(name)
}

// OpenReadChannel implements openReadChannel(name).
func (i *Instance) OpenReadChannel(name string) (*container.ReadChannel, error) {
	return i.container.OpenReadChannel(name)
}

// DeleteFile implements deleteFile(name).
func (i *Instance) DeleteFile(name string) error {
	return i.container.Delete(name)
}

// ListFiles implements listFiles().
func (i *Instance) ListFiles() ([]string, error) {
	return i.container.ListFiles()
}

// FileExists implements fileExists(name).
func (i *Instance) FileExists(name string) (bool, error) {
	return i.container.FileExists(name)
}

// AvailableSpace implements availableSpace().
func (i *Instance) AvailableSpace() (int32, error) {
	return i.container.AvailableSpace()
}

// Defragment implements defragment(): an on-demand compaction pass, run
// under the same exclusive lock the background loop uses.
func (i *Instance) Defragment() error {
	return compaction.Defragment(i.container)
}

// Format implements format().
func (i *Instance) Format() error {
	return i.container.Format()
}

// Logger exposes the container's structured logger so a driver (e.g. the
// HTTP server) can tag its own log lines with the same sink.
func (i *Instance) Logger() *zap.SugaredLogger {
	return i.container.Logger()
}

// correlationID tags a downloadAndSave call for log correlation; it
// plays no role in the hot create/read/delete path, matching the
// teacher's own low-overhead-hot-path posture.
func correlationID() string {
	return uuid.NewString()
}
