// Package options provides data structures and functions for configuring a
// cargo container. It defines the parameters that control how a backing
// file is located, how large its record area is, and how often the
// background defragmenter runs.
package options

import (
	"strings"
	"time"
)

// Options defines the configuration parameters for a cargo container.
// It provides control over where the backing file lives, how much record
// area it has, and its maintenance behavior.
type Options struct {
	// Path is the filesystem path of the backing file. Required: there is
	// no default, since a container always names exactly one file.
	Path string `json:"path"`

	// Capacity is the fixed size, in bytes, of the record area — the
	// portion of the backing file after the 8-byte capacity/cursor prefix.
	// Set once at format time and never changed afterwards. WithCapacity
	// only accepts values in the range below; a Capacity assigned directly
	// (as pkg/cargo.Open does) is not range-checked.
	//
	//  - Minimum: 1KiB
	//  - Maximum: 2^31 - 1 bytes
	Capacity int32 `json:"capacity"`

	// AutoDefragInterval controls how often the background defragmenter
	// (§12.1) runs. Zero disables the background loop entirely; callers
	// that only want on-demand Defragment() calls should set this to 0.
	//
	// Default: 6h
	AutoDefragInterval time.Duration `json:"autoDefragInterval"`
}

// OptionFunc is a function type that modifies a container's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct, leaving Path and Capacity untouched since
// those have no sane default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.AutoDefragInterval = opts.AutoDefragInterval
	}
}

// WithPath sets the backing file path for the container.
func WithPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.Path = path
		}
	}
}

// WithCapacity sets the record-area capacity, in bytes, when it lies within
// [MinCapacity, MaxCapacity]. Values outside that range are ignored rather
// than silently clamped, so a caller's mistake surfaces as "capacity
// unchanged" instead of a silently different number.
func WithCapacity(capacity int32) OptionFunc {
	return func(o *Options) {
		if capacity >= MinCapacity && capacity <= MaxCapacity {
			o.Capacity = capacity
		}
	}
}

// WithAutoDefragInterval sets how often the background defragmenter runs.
// A zero interval disables the background loop.
func WithAutoDefragInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval >= 0 {
			o.AutoDefragInterval = interval
		}
	}
}
