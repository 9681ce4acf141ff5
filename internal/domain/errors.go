package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals a configuration that cannot drive a processor.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrMalformedCommand signals an update command that cannot be decoded.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrInvalidCoordinates signals a latitude/longitude pair outside valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// LineError wraps a stream error with the 1-based line it occurred on.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err.Error())
}

func (e *LineError) Unwrap() error { return e.Err }

// NewLineError creates a line-scoped error.
func NewLineError(line int, err error) error {
	return &LineError{Line: line, Err: err}
}
