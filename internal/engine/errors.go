package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected by the engine.
//
// Runtime errors include:
//   - Trace underflow: a program popped an empty trace (logic fault, raised
//     as a panic, never returned)
//   - Unknown program: no program registered under the requested name
//   - Invalid bound: a negative iteration bound
//   - Non-deterministic: two runs of the same program disagreed
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Program names the affected program, if any.
	Program string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeTraceUnderflow indicates a pop from an empty trace.
	ErrCodeTraceUnderflow RuntimeErrorCode = "TRACE_UNDERFLOW"

	// ErrCodeUnknownProgram indicates no program is registered under a name.
	ErrCodeUnknownProgram RuntimeErrorCode = "UNKNOWN_PROGRAM"

	// ErrCodeInvalidBound indicates a negative iteration bound.
	ErrCodeInvalidBound RuntimeErrorCode = "INVALID_BOUND"

	// ErrCodeNonDeterministic indicates two runs produced different digests.
	ErrCodeNonDeterministic RuntimeErrorCode = "NON_DETERMINISTIC"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Program != "" {
		return fmt.Sprintf("%s: %s (program=%s)", e.Code, e.Message, e.Program)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownProgram returns true if the error is an unknown program error.
func IsUnknownProgram(err error) bool {
	return hasCode(err, ErrCodeUnknownProgram)
}

// IsInvalidBound returns true if the error is an invalid bound error.
func IsInvalidBound(err error) bool {
	return hasCode(err, ErrCodeInvalidBound)
}

// IsNonDeterministic returns true if the error reports a digest mismatch.
func IsNonDeterministic(err error) bool {
	return hasCode(err, ErrCodeNonDeterministic)
}

// hasCode uses errors.As so wrapped errors still match.
func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewUnderflowError creates the panic value for popping an empty trace.
func NewUnderflowError() *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeTraceUnderflow,
		Message: "pop from empty trace",
	}
}

// NewUnknownProgramError creates a RuntimeError for an unregistered name.
func NewUnknownProgramError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownProgram,
		Message: fmt.Sprintf("unknown program %q (available: %v)", name, Programs()),
		Program: name,
	}
}

// NewInvalidBoundError creates a RuntimeError for a negative bound.
func NewInvalidBoundError(name string, n int64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidBound,
		Message: fmt.Sprintf("iteration bound must be >= 0, got %d", n),
		Program: name,
		Details: map[string]string{
			"n": fmt.Sprintf("%d", n),
		},
	}
}

// NewNonDeterministicError creates a RuntimeError for a digest mismatch.
func NewNonDeterministicError(name, first, second string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNonDeterministic,
		Message: "repeated runs produced different digests",
		Program: name,
		Details: map[string]string{
			"first":  first,
			"second": second,
		},
	}
}
