package api

import (
	"log/slog"
	"net/http"

	"github.com/smarttodo/smarttodo-api/internal/api/shared"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/service"
)

// AIHandler handles the language model backed endpoints
type AIHandler struct {
	ai     service.AIService
	logger *slog.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(ai service.AIService, log *slog.Logger) *AIHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AIHandler{
		ai:     ai,
		logger: log.With(slog.String("component", "ai_handler")),
	}
}

// Suggest handles POST /ai/suggest requests.
// It returns the validated analysis object for a single task.
func (h *AIHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SuggestRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.ai.Suggest(r.Context(), service.SuggestRequest{
		Title:       req.Title,
		Description: req.Description,
		Context:     req.Context,
		CurrentDate: req.CurrentDate,
		CurrentDay:  req.CurrentDay,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyse task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Rescore handles POST /ai/rescore requests.
// It returns one rescored entry per submitted task, in model order.
func (h *AIHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RescoreRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	current := make([]domain.TaskDraft, 0, len(req.CurrentTasks))
	for _, t := range req.CurrentTasks {
		current = append(current, t.draft())
	}

	entries, err := h.ai.Rescore(r.Context(), service.RescoreRequest{
		NewTask:      req.NewTask.draft(),
		CurrentTasks: current,
		CurrentDate:  req.CurrentDate,
		CurrentDay:   req.CurrentDay,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rescore tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
