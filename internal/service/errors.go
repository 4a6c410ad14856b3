package service

import (
	"errors"
	"fmt"

	"github.com/smarttodo/smarttodo-api/internal/store"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrTaskNotFound indicates the requested task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = store.ErrTaskNotFound

	// ErrNilDependency is returned by constructors given a nil collaborator.
	ErrNilDependency = errors.New("required dependency is nil")
)

// Stage names a step of the AI pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageBuildingPrompt Stage = "building_prompt"
	StageInvoking       Stage = "invoking"
	StageSanitizing     Stage = "sanitizing"
	StageValidating     Stage = "validating"
)

// AIServiceError reports the pipeline stage at which an AI request failed.
type AIServiceError struct {
	Operation string
	Stage     Stage
	Err       error
}

// Error implements the error interface for AIServiceError.
func (e *AIServiceError) Error() string {
	return fmt.Sprintf("ai service %s failed while %s: %v", e.Operation, e.Stage, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AIServiceError) Unwrap() error {
	return e.Err
}

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
