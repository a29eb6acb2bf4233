// Package compaction implements the defragmenter (C7): in-place
// compaction that removes tombstoned regions from the record area while
// preserving the scan order of live records, plus the background ticker
// loop that runs it periodically.
//
// This package fills an import the teacher's engine.go references
// (internal/compaction) but whose source was never included upstream —
// its Config.Interval field is exactly the teacher's own
// options.CompactInterval, here generalized to AutoDefragInterval.
package compaction

import (
	"sync"
	"time"

	"github.com/iamNilotpal/cargo/internal/backingfile"
	"github.com/iamNilotpal/cargo/internal/codec"
	"go.uber.org/zap"
)

// locker is the subset of internal/container.Container this package
// depends on: the exclusive lock and access to the backing file. Kept as
// an interface so compaction does not import container, avoiding a
// cycle (container is the one that owns and drives a Compaction).
type locker interface {
	Lock()
	Unlock()
	File() *backingfile.File
}

// Compaction owns the background defragmentation loop. Defragment itself
// is safe to call directly for an on-demand defragment(); Start/Stop
// layer a time.Ticker on top for the supplemental auto-defrag feature.
type Compaction struct {
	interval time.Duration
	log      *zap.SugaredLogger

	mu   sync.Mutex
	done chan struct{}
}

// New creates a Compaction configured with the given auto-defrag
// interval. An interval of zero means Start is a no-op: the caller only
// gets on-demand Defragment().
func New(interval time.Duration, log *zap.SugaredLogger) *Compaction {
	return &Compaction{interval: interval, log: log}
}

// Start launches the background ticker loop, calling Defragment(target)
// on every tick. It is a no-op if interval is zero or the loop is already
// running.
func (c *Compaction) Start(target locker) {
	if c.interval <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}

	done := make(chan struct{})
	c.done = done

	ticker := time.NewTicker(c.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := Defragment(target); err != nil {
					c.log.Errorw("background defragment failed", "error", err)
					continue
				}
				c.log.Debugw("background defragment completed")
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the background loop, if running. Safe to call even if
// Start was never called or the interval was zero.
func (c *Compaction) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		return
	}
	close(c.done)
	c.done = nil
}

// Defragment implements the defragmenter (C7): it forward-copies every
// live record to a new, contiguous offset starting at 0, skipping
// tombstoned regions entirely, then publishes the new append cursor.
// Defragment takes target's exclusive lock itself (target.Lock()/Unlock())
// for the whole scan-and-rewrite, so callers must not already hold it.
func Defragment(target locker) error {
	target.Lock()
	defer target.Unlock()

	file := target.File()
	cursor := int64(file.AppendCursor())

	var writeOffset int64
	var readOffset int64

	for readOffset < cursor {
		var headerBuf [codec.HeaderSize]byte
		if _, err := file.ReadAt(headerBuf[:], readOffset); err != nil {
			return err
		}

		header, err := codec.DecodeHeader(headerBuf[:])
		if err != nil {
			return err
		}

		recordSize := header.Size()

		if header.Live() {
			if writeOffset != readOffset {
				buf := make([]byte, recordSize)
				if _, err := file.ReadAt(buf, readOffset); err != nil {
					return err
				}
				if _, err := file.WriteAt(buf, writeOffset); err != nil {
					return err
				}
			}
			writeOffset += recordSize
		}

		readOffset += recordSize
	}

	return file.Truncate(int32(writeOffset))
}
