// Package errors provides structured error types for the SWF/ABC decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the table path, byte offset, and cause chain.
//
// Three categories are visible to callers:
//
//	errors.ErrUnsupportedFormat  // unknown signature or compression
//	errors.ErrDecompression      // corrupt compressed body
//	errors.ErrMalformedInput     // truncation, bad varint, bad index, bad count
//
// Detail kinds such as KindTruncated or KindOutOfBounds match
// ErrMalformedInput through errors.Is:
//
//	if errors.Is(err, swferrors.ErrMalformedInput) { ... }
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseModule, errors.KindInvalidEnum).
//		Path("method_body", "3", "traits", "0").
//		Offset(1204).
//		Detail("unknown trait kind %d", kind).
//		Build()
package errors
