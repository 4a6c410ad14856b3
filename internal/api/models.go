package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smarttodo/smarttodo-api/internal/domain"
)

// CategoryRef is a category given by name. Clients may send a plain name
// or the category object they received from the API.
type CategoryRef string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CategoryRef(name)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: category must be a name or an object with a name", domain.ErrInvalidFormat)
	}
	*c = CategoryRef(obj.Name)
	return nil
}

// optionalDate tells an absent deadline apart from an explicit null.
type optionalDate struct {
	set   bool
	value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *optionalDate) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

// TaskRequest is the body of task create and full update requests.
type TaskRequest struct {
	Title         string      `json:"title"          validate:"required,max=255"`
	Description   string      `json:"description"`
	PriorityScore int         `json:"priority_score" validate:"min=0,max=10"`
	Deadline      string      `json:"deadline"       validate:"omitempty,datetime=2006-01-02"`
	Status        int         `json:"status"         validate:"min=0,max=100"`
	Category      CategoryRef `json:"category"`
}

// TaskPatchRequest is the body of a partial task update. Absent fields are
// left unchanged; a null deadline clears it.
type TaskPatchRequest struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	PriorityScore *int         `json:"priority_score"`
	Deadline      optionalDate `json:"deadline"`
	Status        *int         `json:"status"`
	Category      *CategoryRef `json:"category"`
}

// CategorySummary is the category embedded in a task response.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	PriorityScore int              `json:"priority_score"`
	Deadline      *string          `json:"deadline"`
	Status        int              `json:"status"`
	Category      *CategorySummary `json:"category"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CategoryResponse represents the response data for a category
type CategoryResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UsageFrequency int    `json:"usage_frequency"`
}

// ContextRequest is the body of a context entry create request.
type ContextRequest struct {
	Content    string `json:"content"     validate:"required"`
	SourceType string `json:"source_type" validate:"required,oneof=email whatsapp note"`
}

// ContextResponse represents the response data for a context entry
type ContextResponse struct {
	ID                string    `json:"id"`
	Content           string    `json:"content"`
	SourceType        string    `json:"source_type"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessedInsights string    `json:"processed_insights"`
}

// SuggestRequest is the body of an AI suggestion request.
type SuggestRequest struct {
	Title       string `json:"title"        validate:"required"`
	Description string `json:"description"`
	Context     string `json:"context"`
	CurrentDate string `json:"current_date" validate:"omitempty,datetime=2006-01-02"`
	CurrentDay  string `json:"current_day"`
}

// TaskDraftRequest is a task as sent for rescoring. Full task objects
// returned by the API are accepted; extra fields are ignored.
type TaskDraftRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    string      `json:"deadline"`
	Category    CategoryRef `json:"category"`
}

// RescoreRequest is the body of an AI rescoring request.
type RescoreRequest struct {
	NewTask      *TaskDraftRequest  `json:"new_task"      validate:"required"`
	CurrentTasks []TaskDraftRequest `json:"current_tasks"`
	CurrentDate  string             `json:"current_date"  validate:"omitempty,datetime=2006-01-02"`
	CurrentDay   string             `json:"current_day"`
}

func (t TaskDraftRequest) draft() domain.TaskDraft {
	return domain.TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Category:    string(t.Category),
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		PriorityScore: t.PriorityScore,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Deadline != nil {
		d := t.Deadline.String()
		resp.Deadline = &d
	}
	if t.CategoryID != nil {
		resp.Category = &CategorySummary{ID: t.CategoryID.String(), Name: t.Category}
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func categoriesToResponse(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:             c.ID.String(),
			Name:           c.Name,
			UsageFrequency: c.UsageFrequency,
		})
	}
	return out
}

func contextToResponse(e *domain.ContextEntry) ContextResponse {
	return ContextResponse{
		ID:                e.ID.String(),
		Content:           e.Content,
		SourceType:        string(e.SourceType),
		Timestamp:         e.Timestamp,
		ProcessedInsights: e.ProcessedInsights,
	}
}

func contextsToResponse(entries []*domain.ContextEntry) []ContextResponse {
	out := make([]ContextResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, contextToResponse(e))
	}
	return out
}
