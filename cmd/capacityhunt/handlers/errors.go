package handlers

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1 // Startup, configuration or transport failure
	ExitTerminal = 2 // The provider answered with an unrecognized error
	ExitGaveUp   = 3 // MAX_ATTEMPTS or MAX_DURATION reached
	ExitCanceled = 130
)

// ExitError carries a non-zero exit code for an otherwise completed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErrorf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	return ExitFailure
}
