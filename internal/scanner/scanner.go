// Package scanner resolves names to live record offsets by forward scan,
// the same no-cache philosophy the teacher's index package states as its
// design goal but applied here to bytes on disk instead of keys in memory:
// there is no mandated index structure, so every lookup walks the record
// area from offset 0 up to the append cursor.
//
// This keeps the core's only source of truth exactly where the rest of the
// system already looks for it — the backing file itself — at the cost of
// O(n) lookups. A cache is an optimization a caller may layer on top; it
// is never required for correctness (spec.md's "no index mandated"
// posture).
package scanner

import (
	"io"

	"github.com/iamNilotpal/cargo/internal/backingfile"
	"github.com/iamNilotpal/cargo/internal/codec"
	"github.com/iamNilotpal/cargo/pkg/errors"
)

// Match describes a located live record: its name, the absolute
// record-area offset of its header, and the decoded header itself.
type Match struct {
	Offset int64
	Header codec.Header
	Name   string
}

// TombstoneOffset returns the absolute record-area offset of this
// record's tombstone byte (header byte 8).
func (m Match) TombstoneOffset() int64 {
	return m.Offset + 8
}

// ContentOffset returns the absolute record-area offset of this record's
// content bytes, immediately after its header and name.
func (m Match) ContentOffset() int64 {
	return m.Offset + int64(codec.HeaderSize) + int64(m.Header.NameLen)
}

// headerBuf and nameBuf sizes are read in two passes: first the fixed
// 9-byte header, then exactly NameLen bytes of name. Content is never
// read during a scan — only the header and name are needed to resolve
// names to offsets.

// Lookup performs a forward scan over [0, appendCursor) looking for the
// first live record with the given name. By invariant I3 this is also the
// only live record with that name. Tombstoned records are skipped but
// still advance the scan past their full on-disk size.
func Lookup(f *backingfile.File, name string) (Match, error) {
	found, err := scan(f, func(m Match) bool { return m.Header.Live() && m.Name == name })
	if err != nil {
		return Match{}, err
	}
	if found == nil {
		return Match{}, errors.NewNameNotFoundError(name)
	}
	return *found, nil
}

// ListFiles returns the names of all live records, in scan order (which is
// append order for a record area that has never been compacted).
func ListFiles(f *backingfile.File) ([]string, error) {
	var names []string
	_, err := scan(f, func(m Match) bool {
		if m.Header.Live() {
			names = append(names, m.Name)
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// FileExists reports whether a live record with the given name exists. It
// short-circuits the scan at the first match.
func FileExists(f *backingfile.File, name string) (bool, error) {
	found, err := scan(f, func(m Match) bool { return m.Header.Live() && m.Name == name })
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// scan walks the record area from offset 0 to the append cursor, decoding
// one record at a time and calling visit for each. If visit returns true,
// the scan stops and that Match is returned. If the scan reaches the
// append cursor without a match, both return values are nil.
func scan(f *backingfile.File, visit func(Match) bool) (*Match, error) {
	var offset int64
	cursor := int64(f.AppendCursor())

	for offset < cursor {
		var headerBuf [codec.HeaderSize]byte
		if _, err := f.ReadAt(headerBuf[:], offset); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		header, err := codec.DecodeHeader(headerBuf[:])
		if err != nil {
			return nil, wrapScanCorruption("scan", offset, err)
		}

		nameBuf := make([]byte, header.NameLen)
		if _, err := f.ReadAt(nameBuf, offset+int64(codec.HeaderSize)); err != nil {
			return nil, wrapScanCorruption("scan", offset, err)
		}

		match := Match{Offset: offset, Header: header, Name: string(nameBuf)}
		if visit(match) {
			return &match, nil
		}

		offset += header.Size()
	}

	return nil, nil
}

func wrapScanCorruption(operation string, offset int64, cause error) error {
	return errors.NewScanCorruptionError(operation, offset, cause)
}
