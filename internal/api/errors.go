package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smarttodo/smarttodo-api/internal/api/shared"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/generation"
	"github.com/smarttodo/smarttodo-api/internal/generation/response"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// The request deadline wins over whatever the provider reported.
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Model output that could not be used
	case errors.Is(err, generation.ErrMalformedResponse),
		errors.Is(err, generation.ErrValidation):
		return http.StatusInternalServerError

	// Provider failures
	case errors.Is(err, generation.ErrUpstreamUnavailable):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var malformed *response.MalformedError
	var invalid *response.ValidationError
	var domainInvalid *domain.ValidationError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The language model did not answer in time"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrCategoryExists):
		return "Category already exists"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.As(err, &domainInvalid):
		return fmt.Sprintf("Invalid %s: %s", domainInvalid.Field, domainInvalid.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return validationMessage(err)

	case errors.As(err, &malformed):
		return fmt.Sprintf("Failed to parse AI response as JSON %s: %v", malformed.Expected, malformed.Err)
	case errors.As(err, &invalid):
		return invalid.Error()

	case errors.Is(err, generation.ErrContentBlocked):
		return "The language model refused to answer this request"
	case errors.Is(err, generation.ErrUpstreamUnavailable):
		return "The language model is currently unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage extracts the innermost domain validation message, which
// never carries internal details.
func validationMessage(err error) string {
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrInvalidFormat} {
		if !errors.Is(err, sentinel) {
			continue
		}
		msg := err.Error()
		if i := strings.LastIndex(msg, sentinel.Error()+": "); i >= 0 {
			return capitalize(msg[i+len(sentinel.Error())+2:])
		}
	}
	return "Invalid entity data"
}

// rawModelText returns the model text carried by an AI parse or validation
// failure.
func rawModelText(err error) (string, bool) {
	var malformed *response.MalformedError
	if errors.As(err, &malformed) {
		return malformed.Raw, true
	}
	var invalid *response.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Raw, true
	}
	return "", false
}

// SanitizeValidationError turns request validation failures into a message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag(), fe.Param()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "must be at least " + param
	case "max", "lte":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + param
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err: the status from
// MapErrorToStatusCode, a safe message, and the raw model text for AI
// parse and validation failures. A non-empty message overrides the safe
// message for 500 responses that carry no model text.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safe := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	if raw, ok := rawModelText(err); ok {
		opts = append(opts, shared.WithRawResponse(raw))
	} else if message != "" && status == http.StatusInternalServerError {
		safe = message
	}

	shared.RespondWithErrorAndLog(w, r, status, safe, err, opts...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
