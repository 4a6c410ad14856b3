package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

var categoryColumns = []string{"id", "name", "usage_frequency"}

// CategoryStore implements store.CategoryStore.
type CategoryStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.CategoryStore = (*CategoryStore)(nil)

// NewCategoryStore creates a CategoryStore over db, which may be a *sql.DB
// or a *sql.Tx. If logger is nil, slog.Default() is used.
func NewCategoryStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *CategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "category_store")),
	}
}

// WithTx implements store.CategoryStore.
func (s *CategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &CategoryStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// GetOrCreate implements store.CategoryStore. A concurrent insert of the
// same name is resolved by reading the winner's row.
func (s *CategoryStore) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	name = strings.TrimSpace(name)

	existing, err := s.getByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrCategoryNotFound) {
		return nil, err
	}

	category, err := domain.NewCategory(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := s.dialect.builder().
		Insert("categories").
		Columns(categoryColumns...).
		Values(category.ID.String(), category.Name, category.UsageFrequency).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Debug("category created concurrently, reloading", slog.String("name", name))
			return s.getByName(ctx, name)
		}
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, mapped
	}

	log.Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return category, nil
}

func (s *CategoryStore) getByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.getOne(ctx, sq.Eq{"name": name})
}

// GetByID implements store.CategoryStore.
func (s *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.getOne(ctx, sq.Eq{"id": id.String()})
}

func (s *CategoryStore) getOne(ctx context.Context, where sq.Eq) (*domain.Category, error) {
	query, args, err := s.dialect.builder().
		Select(categoryColumns...).
		From("categories").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category select: %w", err)
	}

	var c domain.Category
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.UsageFrequency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCategoryNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return &c, nil
}

// IncrementUsage implements store.CategoryStore.
func (s *CategoryStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.builder().
		Update("categories").
		Set("usage_frequency", sq.Expr("usage_frequency + 1")).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build category update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to increment category usage",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCategoryNotFound)
}

// List implements store.CategoryStore.
func (s *CategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	query, args, err := s.dialect.builder().
		Select(categoryColumns...).
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UsageFrequency); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}
