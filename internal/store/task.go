package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task. The task is validated first; its CategoryID,
	// when set, must reference an existing category.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its category name filled in.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update overwrites every mutable column of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
