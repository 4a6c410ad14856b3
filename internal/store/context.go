package store

import (
	"context"
	"database/sql"

	"github.com/smarttodo/smarttodo-api/internal/domain"
)

// ContextStore defines the interface for context entry persistence.
type ContextStore interface {
	// Create saves a new context entry after validating it.
	Create(ctx context.Context, entry *domain.ContextEntry) error

	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]*domain.ContextEntry, error)

	// WithTx returns a ContextStore bound to tx.
	WithTx(tx *sql.Tx) ContextStore
}
