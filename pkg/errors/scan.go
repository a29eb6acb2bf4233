package errors

// ScanError provides specialized error handling for directory-scanner (C4)
// operations. This structure extends the base error system with scan-specific
// context while properly supporting method chaining through all base error
// methods.
type ScanError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which name was being resolved when the error occurred.
	// This is particularly valuable for debugging because it tells you exactly
	// which file was involved in the failed operation.
	name string

	// Describes what scan operation was being performed when the
	// error occurred (e.g., "Lookup", "ListFiles", "FileExists"). This context
	// helps understand the system state and user actions that led to the error.
	operation string

	// Captures the number of live records the scan had counted at the time
	// of the error. This information helps diagnose capacity-related issues
	// and provides context about the scale of the container.
	liveRecordCount int

	// Captures how many bytes of the record area had been scanned when the
	// error occurred. Combined with liveRecordCount this localizes a
	// corrupted record to an approximate offset.
	recordAreaBytes int64
}

// NewScanError creates a new scan-specific error with the provided context.
func NewScanError(err error, code ErrorCode, msg string) *ScanError {
	return &ScanError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *ScanError instead of *baseError.

// WithMessage updates the error message while maintaining the ScanError type.
func (se *ScanError) WithMessage(msg string) *ScanError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the ScanError type.
func (se *ScanError) WithCode(code ErrorCode) *ScanError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the ScanError type.
func (se *ScanError) WithDetail(key string, value any) *ScanError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithName records which name was being resolved when the error occurred.
func (se *ScanError) WithName(name string) *ScanError {
	se.name = name
	return se
}

// WithOperation records what scan operation was being performed.
func (se *ScanError) WithOperation(operation string) *ScanError {
	se.operation = operation
	return se
}

// WithLiveRecordCount captures how many live records had been counted.
func (se *ScanError) WithLiveRecordCount(count int) *ScanError {
	se.liveRecordCount = count
	return se
}

// WithRecordAreaBytes captures how many record-area bytes had been scanned.
func (se *ScanError) WithRecordAreaBytes(n int64) *ScanError {
	se.recordAreaBytes = n
	return se
}

// Name returns the name that was being resolved when the error occurred.
func (se *ScanError) Name() string {
	return se.name
}

// Operation returns the name of the operation that was being performed.
func (se *ScanError) Operation() string {
	return se.operation
}

// LiveRecordCount returns the number of live records counted so far.
func (se *ScanError) LiveRecordCount() int {
	return se.liveRecordCount
}

// RecordAreaBytes returns how many record-area bytes had been scanned.
func (se *ScanError) RecordAreaBytes() int64 {
	return se.recordAreaBytes
}

// NewNameNotFoundError creates a specialized error for names with no live record.
func NewNameNotFoundError(name string) *ScanError {
	return NewScanError(nil, ErrorCodeFileNotFound, "no live record with this name").
		WithName(name).
		WithOperation("Lookup")
}

// NewScanCorruptionError creates an error for a forward scan that hit bytes
// that do not decode as a well-formed record.
func NewScanCorruptionError(operation string, scannedBytes int64, cause error) *ScanError {
	return NewScanError(cause, ErrorCodeScanCorrupted, "record area scan hit malformed record").
		WithOperation(operation).
		WithRecordAreaBytes(scannedBytes).
		WithDetail("corruption_detected", true)
}
