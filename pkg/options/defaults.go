package options

import "time"

const (
	// MinCapacity is the smallest backing-file record-area size cargo will
	// format, in bytes (1KiB). Anything smaller leaves no room for even a
	// single small record alongside the 8-byte capacity/cursor prefix.
	MinCapacity int32 = 1024

	// MaxCapacity is the largest backing-file record-area size cargo will
	// format, in bytes (2^31 - 1, a hair under 2GiB). Bounded by the int32
	// header fields C1 uses for name_len/content_len/capacity_total/
	// append_cursor: capacity_total cannot itself exceed math.MaxInt32.
	MaxCapacity int32 = 1<<31 - 1

	// DefaultAutoDefragInterval is how often the background defragmenter
	// (§12.1) runs when the caller does not configure one. Chosen to be
	// infrequent enough that it rarely contends with foreground writers.
	DefaultAutoDefragInterval = time.Hour * 6
)

// defaultOptions holds the baseline configuration applied before any
// functional options from the caller are layered on top.
var defaultOptions = Options{
	AutoDefragInterval: DefaultAutoDefragInterval,
}

// NewDefaultOptions returns a copy of the library's baseline Options. Path
// and Capacity have no sane default — they are supplied either through
// WithPath/WithCapacity or directly to pkg/cargo.Open — so they are left
// zero-valued here.
func NewDefaultOptions() Options {
	return defaultOptions
}
