// Package bytesource defines the adapter interface that lets the write
// path ingest content from something other than an in-memory []byte: an
// ambient-OS file (pkg/filesource) or an HTTP-style download
// (pkg/httpsource). Both adapters live outside internal/container, which
// only ever sees a name and a byte stream — it has no notion of "file" or
// "URL".
package bytesource

import "io"

// Source describes a byte stream with an associated name hint and an
// optional, possibly-unknown length hint. NameHint is used to derive the
// record's name when the caller does not supply one explicitly.
// LengthHint returns (length, true) when the length is known up front
// (e.g. a local file's size), or (0, false) when it is not (e.g. a
// chunked HTTP response) — callers falling back to len(NameHint()) for
// the admission check, per spec.md §4.5's stream-from-network-style
// guidance.
type Source interface {
	io.Reader
	NameHint() string
	LengthHint() (length int64, known bool)
}
