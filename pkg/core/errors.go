package core

import "errors"

// Error taxonomy shared by every package. Returned errors wrap one of these
// so callers can test with errors.Is.
var (
	// ErrInvalidSurface is returned when an image-like value cannot yield a
	// compatible RGBA pixel view.
	ErrInvalidSurface = errors.New("invalid surface")

	// ErrInvalidArgument is returned for out-of-range render parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateGeometry describes a surface whose corners are collinear.
	// It is logged, never returned from a render.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
