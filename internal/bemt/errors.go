package bemt

import "errors"

var (
	// ErrInvalidOperatingPoint indicates a non-positive or non-finite rpm,
	// or a non-finite collective pitch.
	ErrInvalidOperatingPoint = errors.New("bemt: invalid operating point")

	// ErrInvalidOptions indicates solver options outside their valid range.
	ErrInvalidOptions = errors.New("bemt: invalid solver options")
)
