// Package errs defines the sentinel errors returned by the rad codec, barcode
// lookup, and collation packages.
//
// Callers should compare against these values with errors.Is rather than
// string matching, since wrapping (e.g. via fmt.Errorf("%w", ...)) is used
// freely to attach context.
package errs

import "errors"

// Header and tag section errors.
var (
	// ErrMalformedHeader is returned when a RadHeader, FileTags, or tag
	// section cannot be parsed: an overlong/undersized length prefix, or
	// a reference/tag name that is not valid UTF-8.
	ErrMalformedHeader = errors.New("rad: malformed header")

	// ErrMalformedRecord is returned when a ReadRecord or Chunk cannot be
	// decoded from the stream, distinct from a short read on the
	// underlying stream itself.
	ErrMalformedRecord = errors.New("rad: malformed record")

	// ErrUnknownTypeID is returned when a type-tag byte does not
	// correspond to any of the known RadType values, or when a width passed
	// to an integer read or write is not one of the four integer widths.
	ErrUnknownTypeID = errors.New("rad: unknown type id")
)

// Stream errors.
var (
	// ErrShortRead is returned when the underlying stream ends before a
	// fixed-size field has been fully read.
	ErrShortRead = errors.New("rad: short read")

	// ErrIO marks an unexpected error surfaced by the underlying
	// io.Reader/io.Writer. Call sites wrap ErrIO itself with %w and
	// format the original error's text into the message with %v, so
	// errors.Is matches ErrIO but the original error is not reachable
	// via errors.Unwrap.
	ErrIO = errors.New("rad: io error")
)

// BarcodeLookupMap / permit-list errors.
var (
	// ErrInvariantViolation indicates a BarcodeLookupMap offsets table
	// that is not non-decreasing, or does not span the full barcode
	// slice, or a Sharder routing to a bucket id with no registered
	// TempBucket — these are programmer errors, never a consequence of
	// malformed input.
	ErrInvariantViolation = errors.New("rad: invariant violation")

	// ErrBarcodeLineLength is returned when a permit-list line's length
	// does not match the file's configured barcode length.
	ErrBarcodeLineLength = errors.New("rad: permit list line has wrong length")

	// ErrBarcodeLineChar is returned when a permit-list line contains a
	// character outside {A, C, G, T}.
	ErrBarcodeLineChar = errors.New("rad: permit list line has non-ACGT character")
)

// Collation errors.
var (
	// ErrUnknownCellInPass2 indicates a corrected barcode was observed
	// during the two-pass collator's second pass that was never seen
	// during the sizing pass — always a programmer error (the two
	// passes must read the same stream), per spec §7.
	ErrUnknownCellInPass2 = errors.New("rad: cell absent from pass 1 size map")
)
