package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies where a context entry came from.
type SourceType string

// Supported context sources
const (
	SourceEmail    SourceType = "email"
	SourceWhatsApp SourceType = "whatsapp"
	SourceNote     SourceType = "note"
)

// RecentContextLimit is how many stored context entries feed a single-task
// analysis.
const RecentContextLimit = 5

// Context entry validation errors
var (
	ErrEmptyContextID      = fmt.Errorf("%w: context entry ID cannot be empty", ErrValidation)
	ErrEmptyContextContent = fmt.Errorf("%w: context entry content cannot be empty", ErrValidation)
	ErrInvalidSourceType   = fmt.Errorf("%w: invalid context source type", ErrValidation)
)

// ContextEntry is a stored note, email or message excerpt used as
// situational input to the model.
type ContextEntry struct {
	ID                uuid.UUID  `json:"id"`
	Content           string     `json:"content"`
	SourceType        SourceType `json:"source_type"`
	Timestamp         time.Time  `json:"timestamp"`
	ProcessedInsights string     `json:"processed_insights"`
}

// NewContextEntry creates a ContextEntry stamped with the current time.
func NewContextEntry(content string, source SourceType) (*ContextEntry, error) {
	e := &ContextEntry{
		ID:         uuid.New(),
		Content:    content,
		SourceType: source,
		Timestamp:  time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the ContextEntry has valid data.
func (e *ContextEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyContextID
	}
	if e.Content == "" {
		return ErrEmptyContextContent
	}
	if !IsValidSourceType(e.SourceType) {
		return ErrInvalidSourceType
	}
	return nil
}

// IsValidSourceType reports whether s is a supported source.
func IsValidSourceType(s SourceType) bool {
	switch s {
	case SourceEmail, SourceWhatsApp, SourceNote:
		return true
	default:
		return false
	}
}

// ContextSnippet is the read-only view of a ContextEntry consumed by prompt
// construction.
type ContextSnippet struct {
	Content    string
	SourceType SourceType
	Timestamp  time.Time
}

// Snippet returns the prompt-facing view of e.
func (e *ContextEntry) Snippet() ContextSnippet {
	return ContextSnippet{
		Content:    e.Content,
		SourceType: e.SourceType,
		Timestamp:  e.Timestamp,
	}
}
