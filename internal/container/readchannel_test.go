package container

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadChannelReadsFullContent(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("hello world")))

	rc, err := c.OpenReadChannel("a.txt")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, int64(len("hello world")), rc.Len())

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestReadChannelReadAtRespectsOffset(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("0123456789")))

	rc, err := c.OpenReadChannel("a.txt")
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 4)
	n, err := rc.ReadAt(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf[:n]))
}

func TestReadChannelReadAtPastEndReturnsEOF(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("abc")))

	rc, err := c.OpenReadChannel("a.txt")
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 1)
	_, err = rc.ReadAt(buf, 3)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadChannelClosePinsThenReleasesExclusiveLock(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("x")))

	rc, err := c.OpenReadChannel("a.txt")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		// Blocks until rc.Close() releases the shared lock held since open.
		_ = c.Create("b.txt", []byte("y"))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("exclusive write completed while read channel was still open")
	default:
	}

	require.NoError(t, rc.Close())
	<-done

	exists, err := c.FileExists("b.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpenReadChannelMissingNameReturnsError(t *testing.T) {
	c := newTestContainer(t, 4096)

	_, err := c.OpenReadChannel("missing.txt")
	assert.Error(t, err)
}

func TestReadChannelOperationsFailAfterClose(t *testing.T) {
	c := newTestContainer(t, 4096)
	require.NoError(t, c.Create("a.txt", []byte("x")))

	rc, err := c.OpenReadChannel("a.txt")
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	buf := make([]byte, 1)
	_, err = rc.ReadAt(buf, 0)
	assert.Error(t, err)
}
