package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task limits
const (
	MaxTaskTitleLength = 255
	MinPriorityScore   = 1
	MaxPriorityScore   = 10
	MaxTaskStatus      = 100
)

// Task validation errors
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle    = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong  = fmt.Errorf("%w: task title cannot exceed 255 characters", ErrValidation)
	ErrInvalidPriority   = fmt.Errorf("%w: priority score must be between 0 and 10", ErrValidation)
	ErrInvalidTaskStatus = fmt.Errorf("%w: task status must be between 0 and 100", ErrValidation)
)

// Task is a persisted to-do item. PriorityScore 0 means the task has not been
// scored; Status is a completion percentage.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Category      string     `json:"category,omitempty"`
	PriorityScore int        `json:"priority_score"`
	Deadline      *Date      `json:"deadline"`
	Status        int        `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTask creates a Task with a fresh ID and timestamps.
func NewTask(title, description string, priority int, deadline *Date, status int) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:            uuid.New(),
		Title:         title,
		Description:   description,
		PriorityScore: priority,
		Deadline:      deadline,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	if t.PriorityScore < 0 || t.PriorityScore > MaxPriorityScore {
		return ErrInvalidPriority
	}
	if t.Status < 0 || t.Status > MaxTaskStatus {
		return ErrInvalidTaskStatus
	}
	return nil
}

// AssignCategory files the task under c.
func (t *Task) AssignCategory(c *Category) {
	if c == nil {
		t.CategoryID = nil
		t.Category = ""
		return
	}
	id := c.ID
	t.CategoryID = &id
	t.Category = c.Name
}

// Touch bumps UpdatedAt.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// TaskDraft is the caller-supplied description of a task used as model
// input. It is never persisted by the AI layer.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
	Category    string `json:"category,omitempty"`
}
