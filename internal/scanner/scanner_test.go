package scanner

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iamNilotpal/cargo/internal/backingfile"
	"github.com/iamNilotpal/cargo/internal/codec"
	cargoerrors "github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/iamNilotpal/cargo/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanFile(t *testing.T) *backingfile.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "container.cargo")

	f, err := backingfile.Open(&backingfile.Config{Path: path, Capacity: 4096, Logger: logger.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func appendRecord(t *testing.T, f *backingfile.File, name string, content []byte) {
	t.Helper()
	record, err := codec.Encode(name, content)
	require.NoError(t, err)
	require.NoError(t, f.Append(record))
}

func TestLookupFindsLiveRecord(t *testing.T) {
	f := newScanFile(t)
	appendRecord(t, f, "a.txt", []byte("1"))
	appendRecord(t, f, "b.txt", []byte("22"))

	match, err := Lookup(f, "b.txt")
	require.NoError(t, err)

	want := Match{Offset: 15, Name: "b.txt", Header: codec.Header{NameLen: 5, ContentLen: 2, Tombstone: codec.TombstoneLive}}
	if diff := cmp.Diff(want, match); diff != "" {
		t.Errorf("Lookup result mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupReturnsFileNotFoundForMissingName(t *testing.T) {
	f := newScanFile(t)
	appendRecord(t, f, "a.txt", []byte("1"))

	_, err := Lookup(f, "missing.txt")
	require.Error(t, err)

	scanErr, ok := cargoerrors.AsScanError(err)
	require.True(t, ok)
	assert.Equal(t, cargoerrors.ErrorCodeFileNotFound, scanErr.Code())
}

func TestLookupSkipsTombstonedRecordOfSameName(t *testing.T) {
	f := newScanFile(t)
	appendRecord(t, f, "a.txt", []byte("old"))

	// The first "a.txt" starts at offset 0; its tombstone byte is at offset 8.
	require.NoError(t, f.SetTombstone(8, codec.TombstoneRemoved))
	appendRecord(t, f, "a.txt", []byte("new"))

	match, err := Lookup(f, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int32(3), match.Header.ContentLen)
	// The second record starts after the first one's 9+5+3 bytes.
	assert.Equal(t, int64(17), match.Offset)
}

func TestListFilesReturnsOnlyLiveNamesInScanOrder(t *testing.T) {
	f := newScanFile(t)
	appendRecord(t, f, "a.txt", nil)
	appendRecord(t, f, "b.txt", nil)
	appendRecord(t, f, "c.txt", nil)

	// "a.txt" starts at offset 0; its tombstone byte is at offset 8.
	require.NoError(t, f.SetTombstone(8, codec.TombstoneRemoved))

	names, err := ListFiles(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "c.txt"}, names)
}

func TestFileExists(t *testing.T) {
	f := newScanFile(t)
	appendRecord(t, f, "present.txt", nil)

	exists, err := FileExists(f, "present.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(f, "absent.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}
