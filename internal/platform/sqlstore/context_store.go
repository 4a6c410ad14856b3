package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

var contextColumns = []string{"id", "content", "source_type", "recorded_at", "processed_insights"}

// ContextStore implements store.ContextStore.
type ContextStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.ContextStore = (*ContextStore)(nil)

// NewContextStore creates a ContextStore over db. If logger is nil,
// slog.Default() is used.
func NewContextStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ContextStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "context_store")),
	}
}

// WithTx implements store.ContextStore.
func (s *ContextStore) WithTx(tx *sql.Tx) store.ContextStore {
	return &ContextStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.ContextStore.
func (s *ContextStore) Create(ctx context.Context, entry *domain.ContextEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := s.dialect.builder().
		Insert("context_entries").
		Columns(contextColumns...).
		Values(entry.ID.String(), entry.Content, string(entry.SourceType), entry.Timestamp, entry.ProcessedInsights).
		ToSql()
	if err != nil {
		return fmt.Errorf("build context insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create context entry",
			slog.String("error", err.Error()),
			slog.String("context_id", entry.ID.String()))
		return MapError(err)
	}

	log.Info("context entry created",
		slog.String("context_id", entry.ID.String()),
		slog.String("source_type", string(entry.SourceType)))
	return nil
}

// ListRecent implements store.ContextStore.
func (s *ContextStore) ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error) {
	if limit <= 0 {
		return []*domain.ContextEntry{}, nil
	}
	return s.list(ctx, s.selectEntries().Limit(uint64(limit)))
}

// List implements store.ContextStore.
func (s *ContextStore) List(ctx context.Context) ([]*domain.ContextEntry, error) {
	return s.list(ctx, s.selectEntries())
}

func (s *ContextStore) selectEntries() sq.SelectBuilder {
	return s.dialect.builder().
		Select(contextColumns...).
		From("context_entries").
		OrderBy("recorded_at DESC", "id ASC")
}

func (s *ContextStore) list(ctx context.Context, b sq.SelectBuilder) ([]*domain.ContextEntry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build context select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*domain.ContextEntry{}
	for rows.Next() {
		var (
			e      domain.ContextEntry
			source string
		)
		if err := rows.Scan(&e.ID, &e.Content, &source, &e.Timestamp, &e.ProcessedInsights); err != nil {
			return nil, fmt.Errorf("scan context entry: %w", err)
		}
		e.SourceType = domain.SourceType(source)
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}
