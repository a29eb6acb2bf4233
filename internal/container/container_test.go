package container

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/cargo/pkg/errors"
	"github.com/iamNilotpal/cargo/pkg/logger"
	"github.com/iamNilotpal/cargo/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, capacity int32) *Container {
	t.Helper()
	path := filepath.Join(t.TempDir(), "container.cargo")

	opt := options.NewDefaultOptions()
	opt.Path = path
	opt.Capacity = capacity

	c, err := Open(&Config{Options: &opt, Logger: logger.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestCreateThenReadFile(t *testing.T) {
	c := newTestContainer(t, 4096)

	require.NoError(t, c.Create("a.txt", []byte("hello")))

	content, err := c.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestCreateEmptyRecord(t *testing.T) {
	c := newTestContainer(t, 4096)

	require.NoError(t, c.CreateEmpty("empty.bin"))

	content, err := c.ReadFile("empty.bin")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	c := newTestContainer(t, 4096)
	err := c.Create("", []byte("x"))
	assert.Error(t, err)
}

func TestCreateFailsWhenOutOfSpace(t *testing.T) {
	c := newTestContainer(t, 16)

	err := c.Create("too-big.bin", make([]byte, 100))
	require.Error(t, err)

	storageErr, ok := errors.AsStorageError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeInsufficientSpace, storageErr.Code())
}

func TestReadFileReturnsFileNotFound(t *testing.T) {
	c := newTestContainer(t, 4096)

	_, err := c.ReadFile("missing.txt")
	require.Error(t, err)

	scanErr, ok := errors.AsScanError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeFileNotFound, scanErr.Code())
}

func TestOverwriteReplacesContentAndTombstonesOldRecord(t *testing.T) {
	c := newTestContainer(t, 4096)

	require.NoError(t, c.Create("a.txt", []byte("old")))
	require.NoError(t, c.Overwrite("a.txt", []byte("new-content")))

	content, err := c.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "new-content", string(content))

	names, err := c.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)
}

func TestOverwriteCreatesRecordWhenNoneExists(t *testing.T) {
	c := newTestContainer(t, 4096)

	require.NoError(t, c.Overwrite("new.txt", []byte("first")))

	content, err := c.ReadFile("new.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestDeleteExistingRecordMakesItUnreadable(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("x")))

	require.NoError(t, c.Delete("a.txt"))

	_, err := c.ReadFile("a.txt")
	assert.Error(t, err)

	exists, err := c.FileExists("a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteMissingRecordIsNoop(t *testing.T) {
	c := newTestContainer(t, 4096)
	assert.NoError(t, c.Delete("never-existed.txt"))
}

func TestListFilesInCreationOrder(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", nil))
	require.NoError(t, c.Create("b.txt", nil))
	require.NoError(t, c.Create("c.txt", nil))

	names, err := c.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names)
}

func TestAvailableSpaceShrinksAfterCreate(t *testing.T) {
	c := newTestContainer(t, 4096)

	before, err := c.AvailableSpace()
	require.NoError(t, err)

	require.NoError(t, c.Create("a.txt", []byte("12345")))

	after, err := c.AvailableSpace()
	require.NoError(t, err)
	assert.Less(t, after, before)
}

func TestFormatResetsContainerToEmpty(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("x")))

	require.NoError(t, c.Format())

	names, err := c.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, names)

	available, err := c.AvailableSpace()
	require.NoError(t, err)
	assert.Equal(t, int32(4096), available)
}

func TestOperationsFailAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.cargo")
	opt := options.NewDefaultOptions()
	opt.Path = path
	opt.Capacity = 4096

	c, err := Open(&Config{Options: &opt, Logger: logger.Nop()})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	err = c.Create("a.txt", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCreateStreamWithUnknownLengthIsReadableAfter(t *testing.T) {
	c := newTestContainer(t, 4096)

	written, err := c.CreateStream("streamed.bin", -1, bytes.NewReader([]byte("hello streamed world")))
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello streamed world")), written)

	content, err := c.ReadFile("streamed.bin")
	require.NoError(t, err)
	assert.Equal(t, "hello streamed world", string(content))
}

func TestCreateStreamWithKnownLengthHint(t *testing.T) {
	c := newTestContainer(t, 4096)

	payload := []byte("exact length payload")
	written, err := c.CreateStream("a.bin", int64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), written)

	content, err := c.ReadFile("a.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestCreateStreamFailsAdmissionWhenHintExceedsCapacity(t *testing.T) {
	c := newTestContainer(t, 32)

	_, err := c.CreateStream("too-big.bin", 1024, bytes.NewReader(make([]byte, 1024)))
	require.Error(t, err)

	storageErr, ok := errors.AsStorageError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeInsufficientSpace, storageErr.Code())
}

func TestCreateStreamFailsMidStreamWithoutPublishingCursor(t *testing.T) {
	c := newTestContainer(t, 48)

	before := c.File().AppendCursor()

	oversized := bytes.NewReader(make([]byte, 256))
	_, err := c.CreateStream("overflow.bin", -1, oversized)
	require.Error(t, err)

	assert.Equal(t, before, c.File().AppendCursor())

	names, err := c.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCreateStreamDoesNotLeaveProvisionalRecordVisibleOnSuccess(t *testing.T) {
	c := newTestContainer(t, 4096)

	_, err := c.CreateStream("a.bin", -1, bytes.NewReader([]byte("abc")))
	require.NoError(t, err)
	_, err = c.CreateStream("b.bin", -1, bytes.NewReader([]byte("defgh")))
	require.NoError(t, err)

	names, err := c.ListFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.bin", "b.bin"}, names)
}
