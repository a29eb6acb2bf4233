// Package container coordinates the backing file, allocator, scanner and
// codec into the write path, read path, lifecycle and concurrency
// discipline a cargo container needs. It plays the role the teacher's
// engine package plays for index+storage+compaction, generalized from a
// key/value store to a single-file container filesystem.
//
// Container owns exactly one sync.RWMutex. Every read operation holds the
// shared lock for its entire duration, including — critically — the
// lifetime of any ReadChannel it returns (spec.md §5's option (a), the
// specified default). Every write, defragment, and format holds the
// exclusive lock. This is the simplest correct answer to "can a reader
// and a compactor race": they cannot, because a live read channel keeps
// the shared lock held until Close, so an exclusive-lock operation
// cannot even start until every outstanding channel is released.
package container

import (
	stdErrors "errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/cargo/internal/allocator"
	"github.com/iamNilotpal/cargo/internal/backingfile"
	"github.com/iamNilotpal/cargo/internal/codec"
	"github.com/iamNilotpal/cargo/internal/scanner"
	"github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/iamNilotpal/cargo/pkg/options"
	"go.uber.org/zap"
)

// ErrClosed is returned when attempting to perform operations on a closed
// container.
var ErrClosed = stdErrors.New("operation failed: cannot access closed container")

// Container is the core coordinator. It holds the single lock that makes
// the write path, read path, and defragmentation all safe against each
// other, and delegates the mechanics of each operation to backingfile,
// allocator, scanner, and codec.
type Container struct {
	mu      sync.RWMutex
	closed  atomic.Bool
	file    *backingfile.File
	options *options.Options
	log     *zap.SugaredLogger
}

// Config holds the parameters needed to open a Container.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open creates or opens the backing file named by config.Options.Path at
// config.Options.Capacity, and returns a ready-to-use Container.
func Open(config *Config) (*Container, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "Options and Logger are required")
	}
	if config.Options.Path == "" {
		return nil, errors.NewRequiredFieldError("Path")
	}

	config.Logger.Infow("opening container", "path", config.Options.Path, "capacity", config.Options.Capacity)

	file, err := backingfile.Open(&backingfile.Config{
		Path:     config.Options.Path,
		Capacity: config.Options.Capacity,
		Logger:   config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Container{file: file, options: config.Options, log: config.Logger}, nil
}

// Close releases the backing file. Any outstanding ReadChannel must be
// closed first; Close does not forcibly invalidate them.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Infow("closing container", "path", c.file.Path())
	return c.file.Close()
}

func (c *Container) checkOpen() error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

// validateName rejects the empty name spec.md §7 calls out as
// InvalidArgument under every write path.
func validateName(name string) error {
	if name == "" {
		return errors.NewRequiredFieldError("name")
	}
	return nil
}

// CreateEmpty implements createFile(name): create an empty record,
// erroring on space.
func (c *Container) CreateEmpty(name string) error {
	return c.Create(name, nil)
}

// Create implements createFile(name, bytes): append a new live record.
// Fails with InsufficientSpace if the record (header + name + content)
// does not fit in the remaining record area.
func (c *Container) Create(name string, content []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.appendRecord(name, content)
}

// appendRecord checks admission and appends a new live record. Callers
// must already hold the exclusive lock.
func (c *Container) appendRecord(name string, content []byte) error {
	total := int32(codec.HeaderSize) + int32(len(name)) + int32(len(content))
	if !allocator.IsEnoughSpace(c.file.AppendCursor(), c.file.CapacityTotal(), total) {
		return errors.NewStorageError(
			nil, errors.ErrorCodeInsufficientSpace, "not enough space for record",
		).WithDetail("required", total).
			WithDetail("available", allocator.Available(c.file.AppendCursor(), c.file.CapacityTotal()))
	}

	encoded, err := codec.Encode(name, content)
	if err != nil {
		return err
	}

	return c.file.Append(encoded)
}

// CreateStream implements spec.md §4.5's "stream from network-style
// source" write path using option (b): reserve the header at the current
// append cursor, stream content bytes directly into the record area
// while tracking the count, then patch the header's content_len in
// place once the source is exhausted. The append cursor is published
// only after the patch succeeds, so a failure mid-stream leaves it
// pointing at its old value — the partially-written bytes beyond it are
// unreachable by I2, the same rollback-for-free property a crash
// mid-payload gets on the buffer-then-append path.
//
// sizeHint is the advertised content length, or -1 if unknown. It is
// used only for the upfront admission check (falling back to len(name)
// when unknown, per §4.5); the stream itself is bounded by remaining
// capacity, checked per chunk, since an unknown-length source can still
// run out partway through.
func (c *Container) CreateStream(name string, sizeHint int64, r io.Reader) (int64, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if err := validateName(name); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	admission := sizeHint
	if admission < 0 {
		admission = int64(len(name))
	}

	total := int64(codec.HeaderSize) + int64(len(name)) + admission
	if !allocator.IsEnoughSpace(c.file.AppendCursor(), c.file.CapacityTotal(), int32(total)) {
		return 0, errors.NewStorageError(
			nil, errors.ErrorCodeInsufficientSpace, "not enough space for streamed record",
		).WithDetail("required", total).
			WithDetail("available", allocator.Available(c.file.AppendCursor(), c.file.CapacityTotal()))
	}

	headerOffset := int64(c.file.AppendCursor())
	provisional, err := codec.EncodeHeader(int32(len(name)), 0, codec.TombstoneLive)
	if err != nil {
		return 0, err
	}
	if _, err := c.file.WriteAt(provisional[:], headerOffset); err != nil {
		return 0, err
	}
	if _, err := c.file.WriteAt([]byte(name), headerOffset+int64(codec.HeaderSize)); err != nil {
		return 0, err
	}

	contentOffset := headerOffset + int64(codec.HeaderSize) + int64(len(name))
	capacity := int64(c.file.CapacityTotal())

	var written int64
	chunk := make([]byte, 32*1024)
	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			if contentOffset+written+int64(n) > capacity {
				return 0, errors.NewStorageError(
					nil, errors.ErrorCodeInsufficientSpace, "stream exceeded remaining capacity",
				).WithDetail("available", capacity-contentOffset-written)
			}
			if _, werr := c.file.WriteAt(chunk[:n], contentOffset+written); werr != nil {
				return 0, werr
			}
			written += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, errors.NewStorageError(
				readErr, errors.ErrorCodeIO, "failed reading stream source",
			)
		}
	}

	final, err := codec.EncodeHeader(int32(len(name)), int32(written), codec.TombstoneLive)
	if err != nil {
		return 0, err
	}
	if _, err := c.file.WriteAt(final[:], headerOffset); err != nil {
		return 0, err
	}

	if err := c.file.Truncate(int32(contentOffset + written)); err != nil {
		return 0, err
	}

	return written, nil
}

// Overwrite implements overwriteFile(name, bytes): replace-or-create with
// overwrite semantics. If a live record with this name exists, its
// tombstone byte is set first, and only then is the new record appended —
// so a concurrent reader holding the shared lock can never observe two
// live records with the same name, and a reader that arrives after this
// call either sees the old record (not yet tombstoned) or the new one
// (tombstoned-then-appended), never neither.
func (c *Container) Overwrite(name string, content []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Admission is checked before the old record is tombstoned, so an
	// overwrite that does not fit leaves the old record live.
	total := int32(codec.HeaderSize) + int32(len(name)) + int32(len(content))
	if !allocator.IsEnoughSpace(c.file.AppendCursor(), c.file.CapacityTotal(), total) {
		return errors.NewStorageError(
			nil, errors.ErrorCodeInsufficientSpace, "not enough space for record",
		).WithDetail("required", total).
			WithDetail("available", allocator.Available(c.file.AppendCursor(), c.file.CapacityTotal()))
	}

	match, err := scanner.Lookup(c.file, name)
	switch {
	case err == nil:
		if tombErr := c.file.SetTombstone(match.TombstoneOffset(), codec.TombstoneRemoved); tombErr != nil {
			return tombErr
		}
	default:
		scanErr, ok := errors.AsScanError(err)
		if !ok || scanErr.Code() != errors.ErrorCodeFileNotFound {
			return err
		}
	}

	return c.appendRecord(name, content)
}

// Delete implements deleteFile(name): tombstones the live record if one
// exists. A missing name is a no-op, not an error.
func (c *Container) Delete(name string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	match, err := scanner.Lookup(c.file, name)
	if err != nil {
		if scanErr, ok := errors.AsScanError(err); ok && scanErr.Code() == errors.ErrorCodeFileNotFound {
			return nil
		}
		return err
	}

	return c.file.SetTombstone(match.TombstoneOffset(), codec.TombstoneRemoved)
}

// ReadFile implements readFile(name): returns the full content bytes of
// the named live record, or FileNotFound if none exists.
func (c *Container) ReadFile(name string) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	match, err := scanner.Lookup(c.file, name)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, match.Header.ContentLen)
	if len(buf) > 0 {
		if _, err := c.file.ReadAt(buf, match.ContentOffset()); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// ListFiles implements listFiles(): live names in scan order.
func (c *Container) ListFiles() ([]string, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return scanner.ListFiles(c.file)
}

// FileExists implements fileExists(name).
func (c *Container) FileExists(name string) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return scanner.FileExists(c.file, name)
}

// AvailableSpace implements availableSpace(): bytes free in the record
// area.
func (c *Container) AvailableSpace() (int32, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return allocator.Available(c.file.AppendCursor(), c.file.CapacityTotal()), nil
}

// Logger exposes the container's structured logger so higher-level
// facades (pkg/cargo) can tag their own operations without each needing
// to build and inject a second logger for the same container.
func (c *Container) Logger() *zap.SugaredLogger {
	return c.log
}

// File exposes the backing file handle to internal/compaction, which
// needs direct positional access while holding Container's exclusive
// lock during Defragment. It is unexported-package-only by convention:
// only code inside this module should ever see it.
func (c *Container) File() *backingfile.File {
	return c.file
}

// Lock and Unlock expose the exclusive lock to internal/compaction's
// Defragment, so it runs under the same discipline every other write
// uses without container re-implementing its logic.
func (c *Container) Lock()   { c.mu.Lock() }
func (c *Container) Unlock() { c.mu.Unlock() }

// Format implements format(): resets append_cursor to 0, preserving
// capacity_total. It does not zero the record area; bytes beyond the new
// cursor are unreachable once the prefix is flushed (I6).
func (c *Container) Format() error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Infow("formatting container", "path", c.file.Path())
	return c.file.Truncate(0)
}
