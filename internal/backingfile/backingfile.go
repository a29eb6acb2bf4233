// Package backingfile provides the fixed-capacity random-access file that
// underlies a cargo container: an 8-byte prefix (capacity_total,
// append_cursor) followed by a record area of configured capacity.
//
// The package was designed to solve a narrower problem than a general
// segmented log: there is exactly one file, it never rotates, and its
// total size is fixed for the file's entire life. What does need care is
// getting open-or-create bootstrap, positional I/O, and durable flushing
// right, since every higher-level invariant (I1-I6) rests on this layer
// persisting exactly the bytes it is told to.
package backingfile

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/iamNilotpal/cargo/pkg/filesys"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PrefixSize is the fixed size, in bytes, of the backing file's prefix:
// capacity_total (4) + append_cursor (4).
const PrefixSize = 8

// File is the backing-file handle. It owns the *os.File and the two
// prefix fields, and exposes positional read/write primitives that the
// scanner and container packages build on. File does not know about
// records — it deals only in bytes at offsets relative to the start of
// the record area.
type File struct {
	file          *os.File
	path          string
	capacityTotal int32
	appendCursor  int32
	log           *zap.SugaredLogger
}

// Config encapsulates the parameters required to open a backing file.
type Config struct {
	Path     string
	Capacity int32
	Logger   *zap.SugaredLogger
}

// Open opens the backing file at config.Path, creating it at config.Capacity
// if it does not exist. If the file already exists, its 8-byte prefix is
// trusted as-is: capacity_total is read back (config.Capacity is ignored
// for an existing file, since capacity is immutable after format), and
// append_cursor is recovered from the prefix.
func Open(config *Config) (*File, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "config and config.Logger are required")
	}

	dir := filepath.Dir(config.Path)
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	_, statErr := os.Stat(config.Path)
	isNew := os.IsNotExist(statErr)

	flags := os.O_CREATE | os.O_RDWR
	osFile, err := os.OpenFile(config.Path, flags, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path, filepath.Base(config.Path))
	}

	bf := &File{file: osFile, path: config.Path, log: config.Logger}

	if isNew {
		config.Logger.Infow("formatting new backing file", "path", config.Path, "capacity", config.Capacity)
		bf.capacityTotal = config.Capacity
		bf.appendCursor = 0
		if err := bf.flushPrefix(); err != nil {
			_ = osFile.Close()
			return nil, err
		}
		return bf, nil
	}

	config.Logger.Infow("opening existing backing file", "path", config.Path)
	if err := bf.recoverPrefix(); err != nil {
		_ = osFile.Close()
		return nil, err
	}

	return bf, nil
}

// recoverPrefix reads the 8-byte prefix from the start of the file and
// populates capacityTotal/appendCursor from it.
func (f *File) recoverPrefix() error {
	var buf [PrefixSize]byte
	if _, err := f.file.ReadAt(buf[:], 0); err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeRecoveryFailed, "failed to read backing file prefix",
		).WithPath(f.path)
	}

	f.capacityTotal = int32(binary.BigEndian.Uint32(buf[0:4]))
	f.appendCursor = int32(binary.BigEndian.Uint32(buf[4:8]))

	if f.appendCursor < 0 || f.appendCursor > f.capacityTotal {
		return errors.NewStorageError(
			nil, errors.ErrorCodeRecordCorrupted, "recovered append_cursor is out of bounds",
		).WithPath(f.path).
			WithDetail("append_cursor", f.appendCursor).
			WithDetail("capacity_total", f.capacityTotal)
	}

	return nil
}

// flushPrefix writes the current capacityTotal/appendCursor back to the
// start of the file and syncs it, so the prefix is durable before any
// caller-visible operation returns.
func (f *File) flushPrefix() error {
	var buf [PrefixSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(f.capacityTotal))
	binary.BigEndian.PutUint32(buf[4:8], uint32(f.appendCursor))

	if _, err := f.file.WriteAt(buf[:], 0); err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to write backing file prefix",
		).WithPath(f.path).WithOffset(0)
	}

	if err := f.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(f.path), f.path, 0)
	}

	return nil
}

// CapacityTotal returns the fixed record-area capacity in bytes. It never
// changes after the backing file is created.
func (f *File) CapacityTotal() int32 {
	return f.capacityTotal
}

// AppendCursor returns the current append cursor: the offset of the next
// free byte in the record area, relative to the start of the record area.
func (f *File) AppendCursor() int32 {
	return f.appendCursor
}

// recordAreaOffset converts an offset relative to the start of the record
// area into an absolute file offset, accounting for the prefix.
func recordAreaOffset(relative int64) int64 {
	return int64(PrefixSize) + relative
}

// ReadAt reads len(buf) bytes starting at offset (relative to the start
// of the record area) into buf, clamping at the append cursor: reading
// past the live record area returns io.EOF the same way os.File.ReadAt
// does at end-of-file, since bytes beyond append_cursor are unreachable
// by design (I2).
func (f *File) ReadAt(buf []byte, offset int64) (int, error) {
	if offset >= int64(f.appendCursor) {
		return 0, io.EOF
	}

	clamped := false
	if remaining := int64(f.appendCursor) - offset; int64(len(buf)) > remaining {
		buf = buf[:remaining]
		clamped = true
	}

	n, err := f.file.ReadAt(buf, recordAreaOffset(offset))
	if err != nil && err != io.EOF {
		return n, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed reading backing file record area",
		).WithPath(f.path).WithOffset(int(offset))
	}
	if clamped && err == nil {
		err = io.EOF
	}
	return n, err
}

// WriteAt writes buf at offset (relative to the start of the record
// area). Callers are responsible for ensuring offset+len(buf) does not
// exceed capacityTotal; WriteAt itself performs no admission check (see
// internal/allocator).
func (f *File) WriteAt(buf []byte, offset int64) (int, error) {
	n, err := f.file.WriteAt(buf, recordAreaOffset(offset))
	if err != nil {
		return n, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed writing backing file record area",
		).WithPath(f.path).WithOffset(int(offset))
	}
	return n, nil
}

// Append writes buf at the current append cursor, advances the cursor by
// len(buf), and flushes the updated prefix before returning. This is the
// only way the append cursor moves forward.
func (f *File) Append(buf []byte) error {
	if _, err := f.WriteAt(buf, int64(f.appendCursor)); err != nil {
		return err
	}

	f.appendCursor += int32(len(buf))
	return f.flushPrefix()
}

// SetTombstone writes a single tombstone byte at the given absolute
// record-area offset (the offset of the tombstone byte within the
// record's on-disk layout, i.e. recordOffset + 8).
func (f *File) SetTombstone(tombstoneOffset int64, value byte) error {
	_, err := f.WriteAt([]byte{value}, tombstoneOffset)
	return err
}

// Truncate publishes newCursor as the append cursor and flushes the
// prefix. Despite the name this is a plain setter, not just a shrink: it
// is used by format and defragmentation to publish a smaller cursor, and
// by the reserve-then-patch streaming write path to publish a larger one
// once a record's header has been patched with its final content_len.
// It does not zero the record area: bytes beyond the new cursor are
// unreachable once the prefix is flushed, matching I6.
func (f *File) Truncate(newCursor int32) error {
	f.appendCursor = newCursor
	return f.flushPrefix()
}

// Sync flushes any pending writes to stable storage.
func (f *File) Sync() error {
	if err := f.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(f.path), f.path, int(f.appendCursor))
	}
	return nil
}

// Close flushes any pending writes and releases the underlying file
// handle, combining failures from both steps rather than losing one to
// the other.
func (f *File) Close() error {
	return multierr.Combine(f.Sync(), f.file.Close())
}

// Path returns the filesystem path of the backing file.
func (f *File) Path() string {
	return f.path
}
