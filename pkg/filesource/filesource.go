// Package filesource adapts an ambient-OS file into a bytesource.Source,
// implementing the "copy from ambient source" capability (spec.md §4.5):
// the record's name is the source's basename, its length is known
// up front from os.Stat, and its bytes stream directly from the open
// file.
package filesource

import (
	"os"
	"path/filepath"

	"github.com/iamNilotpal/cargo/pkg/errors"
)

// FileSource implements bytesource.Source over a regular file on disk.
type FileSource struct {
	file *os.File
	name string
	size int64
}

// New opens path and returns a FileSource. It fails with an IO
// StorageError if path cannot be stat'ed (for example, it does not
// exist), and with InvalidArgument if path does not refer to a regular
// file — a directory, device, or other special file cannot be read as
// record content.
func New(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat source path").WithPath(path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewNonRegularFileError(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	return &FileSource{file: file, name: filepath.Base(path), size: info.Size()}, nil
}

// NameHint returns the source file's basename.
func (fs *FileSource) NameHint() string {
	return fs.name
}

// LengthHint returns the file's size, known at construction time via
// os.Stat.
func (fs *FileSource) LengthHint() (int64, bool) {
	return fs.size, true
}

// Read streams the underlying file's bytes.
func (fs *FileSource) Read(buf []byte) (int, error) {
	return fs.file.Read(buf)
}

// Close releases the underlying file handle.
func (fs *FileSource) Close() error {
	return fs.file.Close()
}
