package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes backing-file operations like reading or
	// writing records, network operations when downloading content, and
	// device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes of a single-file container store: a fixed-capacity
// backing file holding an append-only sequence of named records.
const (
	// ErrorCodeRecordCorrupted indicates that a record's on-disk bytes are
	// damaged or in an inconsistent state (e.g. a negative content_len).
	ErrorCodeRecordCorrupted ErrorCode = "RECORD_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the
	// 9-byte header of a record. Headers carry name_len/content_len/tombstone,
	// so header read failures prevent interpreting anything that follows.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the name or
	// content bytes of a record after its header was read successfully.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that recovering append_cursor from
	// the backing file's prefix on open failed.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// the backing file. This is distinct from generic IO errors because it
	// has a specific resolution path: adjust file permissions.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the host filesystem has run out of
	// space while growing or flushing the backing file.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the filesystem holding the
	// backing file is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"

	// ErrorCodeInsufficientSpace indicates the admission check (C3) failed:
	// the incoming record does not fit in the remaining record area.
	ErrorCodeInsufficientSpace ErrorCode = "INSUFFICIENT_SPACE"

	// ErrorCodeFileNotFound indicates a read or stream operation targeted a
	// name with no live record.
	ErrorCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// ErrorCodeRecordBusy indicates a write or compaction collided with an
	// open read channel pinning the record. Unreachable under the option-(a)
	// implementation chosen for this module (hold the shared lock for the
	// channel's lifetime); kept for interface completeness.
	ErrorCodeRecordBusy ErrorCode = "RECORD_BUSY"

	// ErrorCodeStorageUnavailable indicates the backing file could not be
	// opened, read, or written at all (C2).
	ErrorCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Scan-specific error codes address the specialized needs of directory
// scanner (C4) operations. A scan miss is reported as
// ErrorCodeFileNotFound, not a separate scan-specific code: "name not
// found" means the same thing to every caller regardless of which layer
// ran the lookup.
const (
	// ErrorCodeScanCorrupted indicates the forward scan hit a byte range
	// that does not decode as a well-formed record.
	ErrorCodeScanCorrupted ErrorCode = "SCAN_CORRUPTED"
)
