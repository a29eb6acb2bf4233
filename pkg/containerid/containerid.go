// Package containerid provides filename helpers for scaffolding new
// container files under a workspace directory, used by `cargo create`
// when the caller does not supply an explicit path.
//
// Filename format: prefix_NNNNN_timestamp.cargo
//
// Where:
//   - prefix: a configurable string identifying the workspace (e.g. "cargo").
//   - NNNNN: a zero-padded 5-digit sequence number (00001, 00002, ...).
//   - timestamp: a nanosecond-precision Unix timestamp for uniqueness.
//   - .cargo: the fixed backing-file extension.
//
// Unlike the segment-rotation naming this is adapted from, there is no
// rotation here — a container is one fixed-capacity file for its entire
// life. The sequence number only orders distinct containers created in
// the same workspace, and because it is zero-padded a lexicographic sort
// of the names orders them by sequence number, which is how NextID finds
// the highest existing ID without parsing every name.
package containerid

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/iamNilotpal/cargo/pkg/filesys"
)

// GenerateName creates a properly formatted filename for a new container
// file, using nowUnixNano (the caller's current time) for the uniqueness
// suffix.
func GenerateName(id uint64, prefix string, nowUnixNano int64) string {
	if prefix == "" {
		return fmt.Sprintf("INVALID_PREFIX_%05d_%d.cargo", id, nowUnixNano)
	}
	return fmt.Sprintf("%s_%05d_%d.cargo", prefix, id, nowUnixNano)
}

// ParseContainerID extracts the sequence ID from a container filename
// produced by GenerateName.
func ParseContainerID(fullPath, prefix string) (uint64, error) {
	_, filename := filepath.Split(fullPath)

	if !strings.HasPrefix(filename, prefix) {
		return 0, fmt.Errorf("filename %s does not start with expected prefix %s", filename, prefix)
	}

	withoutPrefix := strings.TrimPrefix(filename, prefix)
	withoutExtension := strings.Split(withoutPrefix, ".")[0]
	parts := strings.Split(withoutExtension, "_")

	if len(parts) < 3 {
		return 0, fmt.Errorf("filename %s has unexpected format, expected prefix_ID_timestamp.cargo", filename)
	}

	idStr := parts[1]
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse container ID '%s' as integer: %w", idStr, err)
	}

	return id, nil
}

// NextID discovers every existing "prefix_*.cargo" file in dir and
// returns one greater than the highest sequence number found, or 1 if
// the workspace directory has no containers yet.
func NextID(dir, prefix string) (uint64, error) {
	searchPattern := filepath.Join(dir, prefix+"_*.cargo")

	matchingFiles, err := filesys.ReadDir(searchPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to read workspace directory with pattern %s: %w", searchPattern, err)
	}
	if len(matchingFiles) == 0 {
		return 1, nil
	}

	slices.Sort(matchingFiles)
	lastID, err := ParseContainerID(matchingFiles[len(matchingFiles)-1], prefix)
	if err != nil {
		return 0, err
	}

	return lastID + 1, nil
}
