package session

import (
	"errors"
	"fmt"
)

// CommandErrorKind classifies handler failures for retry decisions.
type CommandErrorKind int

const (
	// ErrKindValidation indicates a rejected mutation (bad payload,
	// wrong lifecycle state). Never retried; recorded and skipped.
	ErrKindValidation CommandErrorKind = iota
	// ErrKindVideoControl indicates a playback control failure, which
	// is often transient (handle remount timing). Retried.
	ErrKindVideoControl
	// ErrKindCollaborator indicates a generation/persistence/recording/
	// storage failure. Retried.
	ErrKindCollaborator
)

// CommandError classifies a handler failure.
type CommandError struct {
	Kind CommandErrorKind
	Err  error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may succeed on a later attempt.
func (e *CommandError) Retryable() bool {
	return e.Kind != ErrKindValidation
}

// validationf builds a non-retryable validation error.
func validationf(format string, args ...any) *CommandError {
	return &CommandError{Kind: ErrKindValidation, Err: fmt.Errorf(format, args...)}
}

// videoControlErr wraps a playback control failure.
func videoControlErr(err error) *CommandError {
	return &CommandError{Kind: ErrKindVideoControl, Err: err}
}

// collaboratorErr wraps an external collaborator failure.
func collaboratorErr(err error) *CommandError {
	return &CommandError{Kind: ErrKindCollaborator, Err: err}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind == ErrKindValidation
	}
	return false
}

// isRetryable reports whether err may succeed on a later attempt.
// Unclassified errors are treated as retryable.
func isRetryable(err error) bool {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Retryable()
	}
	return true
}
