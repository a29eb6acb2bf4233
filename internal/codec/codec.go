// Package codec encodes and decodes the on-disk record format used by the
// backing file: a fixed 9-byte header followed by a variable-length name
// and a variable-length content payload.
//
//	name_len    : int32, big-endian, > 0
//	content_len : int32, big-endian, >= 0
//	tombstone   : uint8, 0x00 live / 0x01 removed
//	name        : name_len bytes (UTF-8)
//	content     : content_len bytes (opaque)
//
// Every integer in this package and in internal/backingfile is persisted
// big-endian. That choice is made once, here, and never varied — mixing
// byte orders within one backing file would silently corrupt it.
package codec

import (
	"encoding/binary"

	cargoerrors "github.com/iamNilotpal/cargo/pkg/errors"
)

// HeaderSize is the fixed size, in bytes, of a record header:
// name_len (4) + content_len (4) + tombstone (1).
const HeaderSize = 9

const (
	// TombstoneLive marks a record as the current value for its name.
	TombstoneLive byte = 0x00

	// TombstoneRemoved marks a record as logically deleted. Removed
	// records are skipped by the scanner and physically reclaimed only
	// by defragmentation or format.
	TombstoneRemoved byte = 0x01
)

// Header is the decoded form of a record's fixed 9-byte prefix.
type Header struct {
	NameLen    int32
	ContentLen int32
	Tombstone  byte
}

// Size returns the total on-disk size of a record with this header:
// 9 (header) + NameLen + ContentLen.
func (h Header) Size() int64 {
	return int64(HeaderSize) + int64(h.NameLen) + int64(h.ContentLen)
}

// Live reports whether the header's tombstone byte marks a live record.
func (h Header) Live() bool {
	return h.Tombstone == TombstoneLive
}

// EncodeHeader writes a record header into a 9-byte buffer. It rejects
// nameLen <= 0 and contentLen < 0, since both violate the on-disk
// invariants the rest of the system depends on.
func EncodeHeader(nameLen, contentLen int32, tombstone byte) ([HeaderSize]byte, error) {
	var buf [HeaderSize]byte

	if nameLen <= 0 {
		return buf, cargoerrors.NewFieldRangeError("name_len", nameLen, 1, nil)
	}
	if contentLen < 0 {
		return buf, cargoerrors.NewFieldRangeError("content_len", contentLen, 0, nil)
	}

	binary.BigEndian.PutUint32(buf[0:4], uint32(nameLen))
	binary.BigEndian.PutUint32(buf[4:8], uint32(contentLen))
	buf[8] = tombstone

	return buf, nil
}

// DecodeHeader parses a 9-byte buffer into a Header. It does not validate
// nameLen/contentLen against the backing file's remaining size — that is
// the scanner's responsibility, since only the scanner knows how many
// bytes are actually available at this offset.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, cargoerrors.NewStorageError(
			nil, cargoerrors.ErrorCodeHeaderReadFailure, "short read decoding record header",
		).WithDetail("bytesAvailable", len(buf)).WithDetail("bytesRequired", HeaderSize)
	}

	nameLen := int32(binary.BigEndian.Uint32(buf[0:4]))
	contentLen := int32(binary.BigEndian.Uint32(buf[4:8]))
	tombstone := buf[8]

	if nameLen <= 0 {
		return Header{}, cargoerrors.NewStorageError(
			nil, cargoerrors.ErrorCodeRecordCorrupted, "decoded record has non-positive name_len",
		).WithDetail("name_len", nameLen)
	}
	if contentLen < 0 {
		return Header{}, cargoerrors.NewStorageError(
			nil, cargoerrors.ErrorCodeRecordCorrupted, "decoded record has negative content_len",
		).WithDetail("content_len", contentLen)
	}
	if tombstone != TombstoneLive && tombstone != TombstoneRemoved {
		return Header{}, cargoerrors.NewStorageError(
			nil, cargoerrors.ErrorCodeRecordCorrupted, "decoded record has invalid tombstone byte",
		).WithDetail("tombstone", tombstone)
	}

	return Header{NameLen: nameLen, ContentLen: contentLen, Tombstone: tombstone}, nil
}

// Record is the fully decoded form of one on-disk record: its header plus
// the name and content bytes that followed it.
type Record struct {
	Header  Header
	Name    string
	Content []byte
}

// Encode serializes a complete live record: header + name + content. The
// returned slice is ready to be written verbatim at the append cursor.
func Encode(name string, content []byte) ([]byte, error) {
	header, err := EncodeHeader(int32(len(name)), int32(len(content)), TombstoneLive)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+len(name)+len(content))
	out = append(out, header[:]...)
	out = append(out, name...)
	out = append(out, content...)
	return out, nil
}
