package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// GetOrCreate returns the category called name, creating it with zero
	// usage when it does not exist yet.
	GetOrCreate(ctx context.Context, name string) (*domain.Category, error)

	// GetByID retrieves a category.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// IncrementUsage adds one to the category's usage frequency.
	// Returns ErrCategoryNotFound if the category does not exist.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// WithTx returns a CategoryStore bound to tx.
	WithTx(tx *sql.Tx) CategoryStore
}
