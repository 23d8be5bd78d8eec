package rotor

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry indicates a rotor description that cannot be analysed.
var ErrInvalidGeometry = errors.New("rotor: invalid geometry")

// GeometryError wraps ErrInvalidGeometry with the offending field.
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("rotor: invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}
