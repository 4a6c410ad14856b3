package api

import (
	"log/slog"
	"net/http"

	"github.com/smarttodo/smarttodo-api/internal/api/shared"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/service"
)

// ContextHandler handles context entry HTTP requests
type ContextHandler struct {
	contexts service.ContextService
	logger   *slog.Logger
}

// NewContextHandler creates a new ContextHandler
func NewContextHandler(contexts service.ContextService, log *slog.Logger) *ContextHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ContextHandler{
		contexts: contexts,
		logger:   log.With(slog.String("component", "context_handler")),
	}
}

// ListContext handles GET /context requests
func (h *ContextHandler) ListContext(w http.ResponseWriter, r *http.Request) {
	entries, err := h.contexts.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list context entries")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, contextsToResponse(entries))
}

// CreateContext handles POST /context/create requests
func (h *ContextHandler) CreateContext(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ContextRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	entry, err := h.contexts.Create(r.Context(), req.Content, domain.SourceType(req.SourceType))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create context entry")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, contextToResponse(entry))
}
