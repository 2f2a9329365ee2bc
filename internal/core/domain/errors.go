package domain

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrMalformedArea = errors.New("malformed area")
	ErrStorage       = errors.New("storage failure")
)

// ValidationError reports which request field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MalformedAreaError is the normalizer's outcome for an area that does not
// describe a polygon.
type MalformedAreaError struct {
	Reason string
}

func (e *MalformedAreaError) Error() string {
	return "malformed area: " + e.Reason
}

func (e *MalformedAreaError) Unwrap() error { return ErrMalformedArea }
