package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed input, including an order request
// whose line items all failed menu resolution.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StageError tags an internal failure with the orchestration stage it
// occurred in, so callers can report where a multi-step mutation broke.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// AtStage wraps err with a stage tag; nil passes through.
func AtStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf extracts the innermost stage tag, or "" when err carries none.
func StageOf(err error) string {
	var se *StageError
	stage := ""
	for errors.As(err, &se) {
		stage = se.Stage
		err = se.Err
	}
	return stage
}
