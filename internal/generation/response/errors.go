package response

import (
	"fmt"

	"github.com/smarttodo/smarttodo-api/internal/generation"
)

// MalformedError reports model text that is not the required JSON shape.
type MalformedError struct {
	// Raw is the model text exactly as received.
	Raw string
	// Expected names the required top-level shape, "object" or "array".
	Expected string
	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("failed to parse AI response as JSON %s: %v", e.Expected, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, generation.ErrMalformedResponse) true.
func (e *MalformedError) Is(target error) bool {
	return target == generation.ErrMalformedResponse
}

// ValidationError reports parseable model output with an invalid field.
type ValidationError struct {
	// Raw is the model text exactly as received.
	Raw string
	// Field is the offending JSON field, prefixed with the entry index for
	// array results (e.g. "[2].new_priority_score").
	Field string
	// Message describes the violation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid AI response: %s", e.Message)
	}
	return fmt.Sprintf("invalid AI response: %s %s", e.Field, e.Message)
}

// Is makes errors.Is(err, generation.ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == generation.ErrValidation
}
