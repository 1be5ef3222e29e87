package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed input. All of them are fatal: the parser
// stops and returns them wrapped in a *LineError.
var (
	// ErrMalformedTime is returned when a time field is not H:MM or HH:MM.
	ErrMalformedTime = errors.New("malformed time")

	// ErrMalformedDuration is returned when an hours field is not H.MM.
	ErrMalformedDuration = errors.New("malformed duration")

	// ErrDurationRange is returned when a minutes fraction is 60 or more.
	ErrDurationRange = errors.New("duration fraction out of range")

	// ErrMissingField is returned when an action line lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrUnknownAction is returned for an action code outside b, s, w, N, Y.
	ErrUnknownAction = errors.New("unknown action code")

	// ErrMalformedDate is returned when a date line does not name a real day.
	ErrMalformedDate = errors.New("malformed date")

	// ErrUnrecognizedLine is returned for lines matching no known shape.
	ErrUnrecognizedLine = errors.New("unrecognized line")
)

// LineError records the input line that stopped the parser.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
