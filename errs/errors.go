// Package errs defines the sentinel errors returned by neurokl packages.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrZeroBin) {
//	    // distribution was not strictly positive
//	}
package errs

import "errors"

var (
	// ErrInvalidInput is returned when input data violates a documented precondition,
	// e.g. a non-binary spike matrix, an out-of-range state or a bad option value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrZeroBin is returned by the direct (plug-in) estimators when a probability
	// vector contains an entry that is exactly zero.
	ErrZeroBin = errors.New("zero bins found")

	// ErrConsistency is returned when the block distributions of a partition do not
	// reconcile across granularities.
	ErrConsistency = errors.New("inconsistent block partition")

	// ErrInsufficientData is returned when there are too few sample sizes for the
	// quadratic extrapolation fit.
	ErrInsufficientData = errors.New("insufficient data for extrapolation")

	// ErrShapeMismatch is returned when two vectors or partitions that must line up
	// have different lengths or block structures.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidHeader is returned when a partition snapshot header is malformed.
	ErrInvalidHeader = errors.New("invalid snapshot header")

	// ErrChecksumMismatch is returned when a decoded snapshot payload fails checksum verification.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrInvalidPayload is returned when a snapshot payload is truncated or malformed.
	ErrInvalidPayload = errors.New("invalid snapshot payload")

	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)
