package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	buf, err := EncodeHeader(5, 42, TombstoneLive)
	require.NoError(t, err)

	header, err := DecodeHeader(buf[:])
	require.NoError(t, err)

	assert.Equal(t, int32(5), header.NameLen)
	assert.Equal(t, int32(42), header.ContentLen)
	assert.True(t, header.Live())
}

func TestEncodeHeaderRejectsZeroNameLen(t *testing.T) {
	_, err := EncodeHeader(0, 10, TombstoneLive)
	assert.Error(t, err)
}

func TestEncodeHeaderRejectsNegativeContentLen(t *testing.T) {
	_, err := EncodeHeader(3, -1, TombstoneLive)
	assert.Error(t, err)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeHeaderRejectsInvalidTombstoneByte(t *testing.T) {
	buf, err := EncodeHeader(3, 10, TombstoneLive)
	require.NoError(t, err)
	buf[8] = 0x7F

	_, err = DecodeHeader(buf[:])
	assert.Error(t, err)
}

func TestEncodeProducesCompleteRecord(t *testing.T) {
	record, err := Encode("hello.txt", []byte("world"))
	require.NoError(t, err)

	assert.Equal(t, HeaderSize+len("hello.txt")+len("world"), len(record))

	header, err := DecodeHeader(record[:HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, int32(len("hello.txt")), header.NameLen)
	assert.Equal(t, int32(len("world")), header.ContentLen)

	name := record[HeaderSize : HeaderSize+header.NameLen]
	content := record[HeaderSize+header.NameLen:]
	assert.Equal(t, "hello.txt", string(name))
	assert.Equal(t, "world", string(content))
}

func TestEncodeEmptyContent(t *testing.T) {
	record, err := Encode("empty.bin", nil)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize+len("empty.bin"), len(record))
}

func TestHeaderLiveReflectsTombstoneByte(t *testing.T) {
	live := Header{Tombstone: TombstoneLive}
	removed := Header{Tombstone: TombstoneRemoved}

	assert.True(t, live.Live())
	assert.False(t, removed.Live())
}
