package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCoordinate matches every CoordinateFormatError.
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	// ErrMalformedPosition matches every PositionFormatError.
	ErrMalformedPosition = errors.New("malformed position")

	// ErrNoSeparator means the position token has no space between its
	// latitude and longitude halves.
	ErrNoSeparator = errors.New("no separator between latitude and longitude")
	// ErrAxisMismatch means a latitude half does not use N/S or a longitude
	// half does not use E/W.
	ErrAxisMismatch = errors.New("hemisphere letter does not match axis")

	// ErrMissingAttribute means a source airfield lacks a required attribute.
	ErrMissingAttribute = errors.New("missing required attribute")

	errTruncated  = errors.New("token too short")
	errNotDigits  = errors.New("not a decimal number")
	errOutOfRange = errors.New("must be less than 60")
)

// Coordinate subfield names reported in CoordinateFormatError.Field.
const (
	FieldHemisphere = "hemisphere"
	FieldDegrees    = "degrees"
	FieldMinutes    = "minutes"
	FieldSeconds    = "seconds"
)

// CoordinateFormatError reports a single-axis token that does not satisfy the
// hemisphere/degrees/minutes/seconds grammar.
type CoordinateFormatError struct {
	Token string // raw token as supplied
	Field string // subfield that failed, one of the Field* constants
	Err   error  // optional cause, e.g. a strconv error
}

func (e *CoordinateFormatError) Error() string {
	msg := fmt.Sprintf("malformed coordinate %q: invalid %s field", e.Token, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoordinateFormatError) Unwrap() error { return e.Err }

func (e *CoordinateFormatError) Is(target error) bool {
	return target == ErrMalformedCoordinate
}

// PositionFormatError reports a combined "latitude longitude" token that could
// not be split or whose halves failed to parse. Err carries the cause, which is
// a *CoordinateFormatError for sub-token failures.
type PositionFormatError struct {
	Token string
	Axis  Axis // axis of the failing half; AxisUnknown when the split failed
	Err   error
}

func (e *PositionFormatError) Error() string {
	if e.Axis == AxisUnknown {
		return fmt.Sprintf("malformed position %q: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("malformed position %q: %s: %v", e.Token, e.Axis, e.Err)
}

func (e *PositionFormatError) Unwrap() error { return e.Err }

func (e *PositionFormatError) Is(target error) bool {
	return target == ErrMalformedPosition
}
