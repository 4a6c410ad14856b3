package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/generation/prompt"
	"github.com/smarttodo/smarttodo-api/internal/generation/response"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
)

// Completer turns a prompt into raw model text. generation.Gateway
// implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptBuilder renders model prompts. prompt.Builder implements it.
type PromptBuilder interface {
	Analysis(in prompt.AnalysisInput) (string, error)
	Rescore(in prompt.RescoreInput) (string, error)
}

// ContextReader loads recently stored context entries, newest first.
type ContextReader interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.ContextEntry, error)
}

const recentNotesHeader = "Recent Notes:"

// SuggestRequest asks for an analysis of a single task. Blank CurrentDate
// and CurrentDay are filled from the service clock.
type SuggestRequest struct {
	Title       string
	Description string
	Context     string
	CurrentDate string
	CurrentDay  string
}

// RescoreRequest asks for fresh priorities for NewTask together with the
// caller's CurrentTasks.
type RescoreRequest struct {
	NewTask      domain.TaskDraft
	CurrentTasks []domain.TaskDraft
	CurrentDate  string
	CurrentDay   string
}

// AIService provides the language model backed operations.
type AIService interface {
	// Suggest analyses one task using the caller's context plus the most
	// recent stored context entries.
	Suggest(ctx context.Context, req SuggestRequest) (*domain.AnalysisResult, error)

	// Rescore reprioritises the new task and every current task in a single
	// model call. The result has one entry per task, in model order.
	Rescore(ctx context.Context, req RescoreRequest) ([]domain.RescoreEntry, error)
}

// AIServiceOption configures the AI service.
type AIServiceOption func(*aiServiceImpl)

// WithClock overrides the clock used to fill a missing current date.
func WithClock(now func() time.Time) AIServiceOption {
	return func(s *aiServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRequestTimeout bounds each model call. Zero leaves the caller's
// context as the only bound.
func WithRequestTimeout(d time.Duration) AIServiceOption {
	return func(s *aiServiceImpl) {
		s.requestTimeout = d
	}
}

// aiServiceImpl implements the AIService interface
type aiServiceImpl struct {
	prompts        PromptBuilder
	completer      Completer
	contexts       ContextReader
	now            func() time.Time
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewAIService creates a new AIService.
// It returns an error if any of the required dependencies are nil.
func NewAIService(
	prompts PromptBuilder,
	completer Completer,
	contexts ContextReader,
	log *slog.Logger,
	opts ...AIServiceOption,
) (AIService, error) {
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder", ErrNilDependency)
	}
	if completer == nil {
		return nil, fmt.Errorf("%w: completer", ErrNilDependency)
	}
	if contexts == nil {
		return nil, fmt.Errorf("%w: context reader", ErrNilDependency)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &aiServiceImpl{
		prompts:   prompts,
		completer: completer,
		contexts:  contexts,
		now:       time.Now,
		logger:    log.With(slog.String("component", "ai_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Suggest implements AIService.Suggest
func (s *aiServiceImpl) Suggest(ctx context.Context, req SuggestRequest) (*domain.AnalysisResult, error) {
	const op = "suggest"
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", op))

	log.Debug("pipeline stage", slog.String("stage", string(StageBuildingPrompt)))
	entries, err := s.contexts.ListRecent(ctx, domain.RecentContextLimit)
	if err != nil {
		return nil, s.fail(log, op, StageBuildingPrompt, fmt.Errorf("failed to load recent context: %w", err))
	}
	date, day := s.today(req.CurrentDate, req.CurrentDay)
	text, err := s.prompts.Analysis(prompt.AnalysisInput{
		Title:       req.Title,
		Description: req.Description,
		Context:     combineContext(req.Context, entries),
		CurrentDate: date,
		CurrentDay:  day,
	})
	if err != nil {
		return nil, s.fail(log, op, StageBuildingPrompt, err)
	}

	payload, err := s.invoke(ctx, log, op, text)
	if err != nil {
		return nil, err
	}

	log.Debug("pipeline stage", slog.String("stage", string(StageValidating)))
	result, err := response.ParseAnalysis(payload)
	if err != nil {
		return nil, s.fail(log, op, StageValidating, err)
	}

	log.Debug("analysis succeeded",
		slog.Int("priority_score", result.PriorityScore),
		slog.String("suggested_category", string(result.SuggestedCategory)))
	return result, nil
}

// Rescore implements AIService.Rescore
func (s *aiServiceImpl) Rescore(ctx context.Context, req RescoreRequest) ([]domain.RescoreEntry, error) {
	const op = "rescore"
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", op))

	log.Debug("pipeline stage",
		slog.String("stage", string(StageBuildingPrompt)),
		slog.Int("current_tasks", len(req.CurrentTasks)))
	date, day := s.today(req.CurrentDate, req.CurrentDay)
	text, err := s.prompts.Rescore(prompt.RescoreInput{
		NewTask:       req.NewTask,
		ExistingTasks: req.CurrentTasks,
		CurrentDate:   date,
		CurrentDay:    day,
	})
	if err != nil {
		return nil, s.fail(log, op, StageBuildingPrompt, err)
	}

	payload, err := s.invoke(ctx, log, op, text)
	if err != nil {
		return nil, err
	}

	log.Debug("pipeline stage", slog.String("stage", string(StageValidating)))
	entries, err := response.ParseRescore(payload, len(req.CurrentTasks)+1)
	if err != nil {
		return nil, s.fail(log, op, StageValidating, err)
	}

	log.Debug("rescore succeeded", slog.Int("entries", len(entries)))
	return entries, nil
}

// invoke runs the Invoking and Sanitizing stages.
func (s *aiServiceImpl) invoke(
	ctx context.Context,
	log *slog.Logger,
	op string,
	text string,
) (response.Payload, error) {
	log.Debug("pipeline stage",
		slog.String("stage", string(StageInvoking)),
		slog.Int("prompt_length", len(text)))

	callCtx := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	raw, err := s.completer.Complete(callCtx, text)
	if err != nil {
		return response.Payload{}, s.fail(log, op, StageInvoking, err)
	}

	log.Debug("pipeline stage",
		slog.String("stage", string(StageSanitizing)),
		slog.Int("raw_length", len(raw)))
	return response.Sanitize(raw), nil
}

func (s *aiServiceImpl) fail(log *slog.Logger, op string, stage Stage, err error) error {
	log.Error("ai pipeline failed",
		slog.String("stage", string(stage)),
		slog.String("error", err.Error()))
	return &AIServiceError{Operation: op, Stage: stage, Err: err}
}

// today fills a blank date from the clock and a blank weekday from the date.
// The model has no clock of its own.
func (s *aiServiceImpl) today(date, day string) (string, string) {
	if strings.TrimSpace(date) != "" && strings.TrimSpace(day) != "" {
		return date, day
	}
	now := s.now()
	if strings.TrimSpace(date) == "" {
		date = now.Format(domain.DateLayout)
	}
	if strings.TrimSpace(day) == "" {
		if d, err := domain.ParseDate(date); err == nil {
			day = d.Weekday().String()
		} else {
			day = now.Weekday().String()
		}
	}
	return date, day
}

// combineContext joins the caller's context with the stored notes, newest
// first, under a fixed header.
func combineContext(callerContext string, entries []*domain.ContextEntry) string {
	notes := make([]string, 0, len(entries))
	for _, e := range entries {
		notes = append(notes, e.Content)
	}
	return strings.TrimSpace(callerContext) + "\n\n" + recentNotesHeader + "\n" +
		strings.TrimSpace(strings.Join(notes, "\n"))
}
