package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/store"
)

// ContextService stores and lists context entries
type ContextService interface {
	// Create saves a new context entry stamped with the current time
	Create(ctx context.Context, content string, source domain.SourceType) (*domain.ContextEntry, error)

	// List returns all context entries, newest first
	List(ctx context.Context) ([]*domain.ContextEntry, error)
}

type contextServiceImpl struct {
	entries store.ContextStore
	logger  *slog.Logger
}

// NewContextService creates a new ContextService.
func NewContextService(entries store.ContextStore, log *slog.Logger) (ContextService, error) {
	if entries == nil {
		return nil, domain.NewValidationError("entries", "cannot be nil", ErrNilDependency)
	}
	if log == nil {
		log = slog.Default()
	}
	return &contextServiceImpl{
		entries: entries,
		logger:  log.With(slog.String("component", "context_service")),
	}, nil
}

// Create implements ContextService.Create
func (s *contextServiceImpl) Create(
	ctx context.Context,
	content string,
	source domain.SourceType,
) (*domain.ContextEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := domain.NewContextEntry(content, source)
	if err != nil {
		return nil, err
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		log.Error("failed to save context entry",
			slog.String("error", err.Error()),
			slog.String("source_type", string(source)))
		return nil, fmt.Errorf("failed to save context entry: %w", err)
	}

	log.Info("context entry created",
		slog.String("context_id", entry.ID.String()),
		slog.String("source_type", string(source)))
	return entry, nil
}

// List implements ContextService.List
func (s *contextServiceImpl) List(ctx context.Context) ([]*domain.ContextEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := s.entries.List(ctx)
	if err != nil {
		log.Error("failed to list context entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list context entries: %w", err)
	}
	return entries, nil
}
