package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

// TaskInput carries every caller-writable task field. Category is a name;
// an empty name leaves the task uncategorised.
type TaskInput struct {
	Title         string
	Description   string
	PriorityScore int
	Deadline      *domain.Date
	Status        int
	Category      string
}

// TaskPatch carries the task fields to change; nil fields are left as they
// are. ClearDeadline removes the deadline.
type TaskPatch struct {
	Title         *string
	Description   *string
	PriorityScore *int
	Deadline      *domain.Date
	ClearDeadline bool
	Status        *int
	Category      *string
}

// TaskService provides task and category operations
type TaskService interface {
	// Create saves a new task, filing it under its category (created on
	// demand) and bumping the category's usage in the same transaction.
	Create(ctx context.Context, in TaskInput) (*domain.Task, error)

	// Get retrieves a task by its ID
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks, newest first
	List(ctx context.Context) ([]*domain.Task, error)

	// Update replaces every writable field of a task
	Update(ctx context.Context, id uuid.UUID, in TaskInput) (*domain.Task, error)

	// Patch changes only the fields set in p
	Patch(ctx context.Context, id uuid.UUID, p TaskPatch) (*domain.Task, error)

	// Delete removes a task
	Delete(ctx context.Context, id uuid.UUID) error

	// ListCategories returns all categories ordered by name
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db         store.TxBeginner
	tasks      store.TaskStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db store.TxBeginner,
	tasks store.TaskStore,
	categories store.CategoryStore,
	log *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", ErrNilDependency)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", ErrNilDependency)
	}
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", ErrNilDependency)
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		db:         db,
		tasks:      tasks,
		categories: categories,
		logger:     log.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(in.Title, in.Description, in.PriorityScore, in.Deadline, in.Status)
	if err != nil {
		log.Debug("invalid task input", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.fileUnder(ctx, tx, task, in.Category); err != nil {
			return err
		}
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("category", task.Category))
	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, id uuid.UUID, in TaskInput) (*domain.Task, error) {
	category := in.Category
	return s.modify(ctx, "update_task", id, &category, func(t *domain.Task) {
		t.Title = in.Title
		t.Description = in.Description
		t.PriorityScore = in.PriorityScore
		t.Deadline = in.Deadline
		t.Status = in.Status
	})
}

// Patch implements TaskService.Patch
func (s *taskServiceImpl) Patch(ctx context.Context, id uuid.UUID, p TaskPatch) (*domain.Task, error) {
	return s.modify(ctx, "patch_task", id, p.Category, func(t *domain.Task) {
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.PriorityScore != nil {
			t.PriorityScore = *p.PriorityScore
		}
		if p.ClearDeadline {
			t.Deadline = nil
		} else if p.Deadline != nil {
			t.Deadline = p.Deadline
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
	})
}

// modify loads a task, applies change and saves it in one transaction. A
// non-nil category that differs from the current one refiles the task.
func (s *taskServiceImpl) modify(
	ctx context.Context,
	op string,
	id uuid.UUID,
	category *string,
	change func(*domain.Task),
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		current, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		change(current)
		if err := current.Validate(); err != nil {
			return err
		}

		if category != nil && !strings.EqualFold(strings.TrimSpace(*category), current.Category) {
			if err := s.fileUnder(ctx, tx, current, *category); err != nil {
				return err
			}
		}

		current.Touch()
		if err := txTasks.Update(ctx, current); err != nil {
			return err
		}
		task = current
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to modify task",
				slog.String("operation", op),
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, NewTaskServiceError(op, "failed to save task", err)
	}

	log.Info("task updated",
		slog.String("operation", op),
		slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to delete task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// ListCategories implements TaskService.ListCategories
func (s *taskServiceImpl) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	categories, err := s.categories.List(ctx)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_categories", "failed to list categories", err)
	}
	return categories, nil
}

// fileUnder assigns the category called name to task, creating it if needed
// and counting the use. An empty name clears the category.
func (s *taskServiceImpl) fileUnder(ctx context.Context, tx *sql.Tx, task *domain.Task, name string) error {
	if strings.TrimSpace(name) == "" {
		task.AssignCategory(nil)
		return nil
	}

	txCategories := s.categories.WithTx(tx)
	category, err := txCategories.GetOrCreate(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to resolve category %q: %w", name, err)
	}
	if err := txCategories.IncrementUsage(ctx, category.ID); err != nil {
		return fmt.Errorf("failed to count category use: %w", err)
	}
	category.UsageFrequency++

	task.AssignCategory(category)
	return nil
}
