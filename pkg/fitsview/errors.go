package fitsview

import "errors"

var (
	// ErrMalformedHeader is returned when the header has no END record or is truncated
	ErrMalformedHeader = errors.New("malformed FITS header")

	// ErrUnsupportedEncoding is returned for BITPIX values the decoder cannot handle
	ErrUnsupportedEncoding = errors.New("unsupported BITPIX encoding")

	// ErrDimensionMismatch is returned when data length disagrees with the declared dimensions
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEndiannessDetection is returned when the host byte order cannot be determined
	ErrEndiannessDetection = errors.New("cannot determine host byte order")

	// ErrInvalidOption is returned when render options are out of range
	ErrInvalidOption = errors.New("invalid option")

	// ErrNotReady means there is nothing to draw yet. Callers skip the draw.
	ErrNotReady = errors.New("image data not ready")

	// ErrSuperseded is returned by a load that was replaced by a newer one
	ErrSuperseded = errors.New("load superseded")

	// ErrFetch is returned when a byte source cannot deliver the file
	ErrFetch = errors.New("fetch failed")
)
