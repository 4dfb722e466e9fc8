package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/report"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Failure (scenarios failed, non-deterministic run, etc.)
	ExitCommandError = 2 // Command error (unknown program, invalid paths, bad flags)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// engineFailure reports an engine error through r and maps it to an exit
// code: a bad program name or bound is a command error, anything else a
// failure.
func engineFailure(r *report.Reporter, message string, err error) error {
	code := ExitFailure
	errCode := "E_RUN_FAILED"

	var re *engine.RuntimeError
	if errors.As(err, &re) {
		errCode = string(re.Code)
		if engine.IsUnknownProgram(err) || engine.IsInvalidBound(err) {
			code = ExitCommandError
		}
	}

	if r.Format == report.FormatJSON {
		var details any
		if re != nil && len(re.Details) > 0 {
			details = re.Details
		}
		if outErr := r.Error(errCode, err.Error(), details); outErr != nil {
			return outErr
		}
	}
	return WrapExitError(code, message, err)
}
