package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

// taskSelectColumns reads a task joined with its category name.
var taskSelectColumns = []string{
	"t.id",
	"t.title",
	"t.description",
	"t.category_id",
	"COALESCE(c.name, '')",
	"t.priority_score",
	"t.deadline",
	"t.status",
	"t.created_at",
	"t.updated_at",
}

// TaskStore implements store.TaskStore.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore over db, which may be a *sql.DB or a
// *sql.Tx. If logger is nil, slog.Default() is used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// WithTx implements store.TaskStore.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := s.dialect.builder().
		Insert("tasks").
		Columns("id", "title", "description", "category_id", "priority_score",
			"deadline", "status", "created_at", "updated_at").
		Values(task.ID.String(), task.Title, task.Description, nullableID(task.CategoryID), task.PriorityScore,
			dateValue(task.Deadline), task.Status, task.CreatedAt, task.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build task insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return nil
}

func (s *TaskStore) selectTasks() sq.SelectBuilder {
	return s.dialect.builder().
		Select(taskSelectColumns...).
		From("tasks t").
		LeftJoin("categories c ON c.id = t.category_id")
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query, args, err := s.selectTasks().Where(sq.Eq{"t.id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task select: %w", err)
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found", slog.String("task_id", id.String()))
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return task, nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	query, args, err := s.selectTasks().OrderBy("t.created_at DESC", "t.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := s.dialect.builder().
		Update("tasks").
		SetMap(map[string]any{
			"title":          task.Title,
			"description":    task.Description,
			"category_id":    nullableID(task.CategoryID),
			"priority_score": task.PriorityScore,
			"deadline":       dateValue(task.Deadline),
			"status":         task.Status,
			"updated_at":     task.UpdatedAt,
		}).
		Where(sq.Eq{"id": task.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build task update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.builder().
		Delete("tasks").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build task delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t          domain.Task
		categoryID uuid.NullUUID
		deadline   *domain.Date
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&categoryID,
		&t.Category,
		&t.PriorityScore,
		&deadline,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.UUID
		t.CategoryID = &id
	}
	t.Deadline = deadline
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// nullableID and dateValue pass optional columns as plain values so both
// drivers store them the same way.
func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func dateValue(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
