package chaindump

import "errors"

// Pipeline error taxonomy. Every fatal condition wraps one of these so callers
// can classify failures with errors.Is; the wrapping message carries the last
// successfully processed block number where one exists.
var (
	// ErrNotFound indicates the stream file path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrAccessDenied indicates the stream file could not be opened for the
	// requested mode.
	ErrAccessDenied = errors.New("access denied")

	// ErrCorruptStream indicates the byte stream is unreadable: a broken gzip
	// frame or a record that is not a well-formed RLP list.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrTruncatedStream indicates the stream ended in the middle of a record.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrSequenceGap indicates an imported record does not contiguously extend
	// the highest persisted block.
	ErrSequenceGap = errors.New("block sequence gap")

	// ErrRangeUnavailable indicates an export was asked for blocks beyond the
	// store's latest block.
	ErrRangeUnavailable = errors.New("range not available")

	// ErrBlockMissing indicates a block inside the export range is absent from
	// the store. A gap in the store is always fatal, never skipped.
	ErrBlockMissing = errors.New("block missing from store")

	// ErrExecutionRejected indicates the state executor refused a block during
	// import.
	ErrExecutionRejected = errors.New("block rejected by executor")
)
