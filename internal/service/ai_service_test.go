package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/generation"
	"github.com/smarttodo/smarttodo-api/internal/generation/prompt"
	"github.com/smarttodo/smarttodo-api/internal/generation/response"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fencedAnalysis = "```json\n" + `{
  "priority_score": 9,
  "suggested_deadline": "2024-06-03",
  "enhanced_description": "Transfer this month's rent to the landlord.",
  "suggested_category": "Finance",
  "tip_or_advice": "Set up a standing order."
}` + "\n```"

func newAIService(
	t *testing.T,
	completer *MockCompleter,
	contexts *MockContextStore,
	opts ...service.AIServiceOption,
) service.AIService {
	t.Helper()

	builder, err := prompt.NewBuilder("")
	require.NoError(t, err)

	log, _ := logger.NewTestLogger()
	svc, err := service.NewAIService(builder, completer, contexts, log, opts...)
	require.NoError(t, err)
	return svc
}

func entry(content string) *domain.ContextEntry {
	return &domain.ContextEntry{Content: content, SourceType: domain.SourceNote}
}

func TestNewAIService_NilDependencies(t *testing.T) {
	builder, err := prompt.NewBuilder("")
	require.NoError(t, err)

	_, err = service.NewAIService(nil, &MockCompleter{}, &MockContextStore{}, nil)
	assert.ErrorIs(t, err, service.ErrNilDependency)

	_, err = service.NewAIService(builder, nil, &MockContextStore{}, nil)
	assert.ErrorIs(t, err, service.ErrNilDependency)

	_, err = service.NewAIService(builder, &MockCompleter{}, nil, nil)
	assert.ErrorIs(t, err, service.ErrNilDependency)
}

func TestAIService_Suggest(t *testing.T) {
	t.Run("fenced reply is unwrapped", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).
			Return([]*domain.ContextEntry{entry("landlord emailed"), entry("salary arrives friday")}, nil)

		var sent string
		completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return(fencedAnalysis, nil)

		svc := newAIService(t, completer, contexts)
		result, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title:       "Pay rent",
			CurrentDate: "2024-06-01",
			CurrentDay:  "Saturday",
		})
		require.NoError(t, err)

		assert.Equal(t, 9, result.PriorityScore)
		assert.Equal(t, "2024-06-03", result.SuggestedDeadline.String())
		assert.Equal(t, domain.CategoryFinance, result.SuggestedCategory)

		assert.Contains(t, sent, "Today is Saturday, 2024-06-01.")
		assert.Contains(t, sent, "Task Title: Pay rent")
		assert.Contains(t, sent, "Recent Notes:\nlandlord emailed\nsalary arrives friday")
		completer.AssertExpectations(t)
		contexts.AssertExpectations(t)
	})

	t.Run("caller context precedes stored notes", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).
			Return([]*domain.ContextEntry{}, nil)

		var sent string
		completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return(fencedAnalysis, nil)

		svc := newAIService(t, completer, contexts)
		_, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title:       "Pay rent",
			Context:     "  due on the 3rd  ",
			CurrentDate: "2024-06-01",
			CurrentDay:  "Saturday",
		})
		require.NoError(t, err)
		assert.Contains(t, sent, "due on the 3rd\n\nRecent Notes:\n")
	})

	t.Run("missing date comes from the clock", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)

		var sent string
		completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return(fencedAnalysis, nil)

		clock := func() time.Time { return time.Date(2024, time.June, 5, 15, 0, 0, 0, time.UTC) }
		svc := newAIService(t, completer, contexts, service.WithClock(clock))

		_, err := svc.Suggest(context.Background(), service.SuggestRequest{Title: "Pay rent"})
		require.NoError(t, err)
		assert.Contains(t, sent, "Today is Wednesday, 2024-06-05.")
	})

	t.Run("missing weekday comes from the given date", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)

		var sent string
		completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return(fencedAnalysis, nil)

		// a Wednesday clock must not leak into an explicit date
		clock := func() time.Time { return time.Date(2024, time.June, 5, 15, 0, 0, 0, time.UTC) }
		svc := newAIService(t, completer, contexts, service.WithClock(clock))

		_, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title:       "Pay rent",
			CurrentDate: "2024-06-01",
		})
		require.NoError(t, err)
		assert.Contains(t, sent, "Today is Saturday, 2024-06-01.")
	})

	t.Run("prose reply is malformed", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return("Sure! Paying rent is very important.", nil)

		svc := newAIService(t, completer, contexts)
		result, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title: "Pay rent", CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})
		require.Error(t, err)
		assert.Nil(t, result)

		var aiErr *service.AIServiceError
		require.ErrorAs(t, err, &aiErr)
		assert.Equal(t, service.StageValidating, aiErr.Stage)
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)

		var malformed *response.MalformedError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "Sure! Paying rent is very important.", malformed.Raw)
	})

	t.Run("out of range score fails validation", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(strings.Replace(fencedAnalysis, `"priority_score": 9`, `"priority_score": 11`, 1), nil)

		svc := newAIService(t, completer, contexts)
		_, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title: "Pay rent", CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})
		assert.ErrorIs(t, err, generation.ErrValidation)
	})

	t.Run("gateway failure", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return("", generation.ErrUpstreamUnavailable)

		svc := newAIService(t, completer, contexts)
		_, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title: "Pay rent", CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})

		var aiErr *service.AIServiceError
		require.ErrorAs(t, err, &aiErr)
		assert.Equal(t, service.StageInvoking, aiErr.Stage)
		assert.Equal(t, "suggest", aiErr.Operation)
		assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
	})

	t.Run("context store failure stops before the model call", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).
			Return(nil, errors.New("connection reset"))

		svc := newAIService(t, completer, contexts)
		_, err := svc.Suggest(context.Background(), service.SuggestRequest{Title: "Pay rent"})

		var aiErr *service.AIServiceError
		require.ErrorAs(t, err, &aiErr)
		assert.Equal(t, service.StageBuildingPrompt, aiErr.Stage)
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("request timeout bounds the model call", func(t *testing.T) {
		completer := new(MockCompleter)
		contexts := new(MockContextStore)
		contexts.On("ListRecent", mock.Anything, domain.RecentContextLimit).Return([]*domain.ContextEntry{}, nil)
		hasDeadline := mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})
		completer.On("Complete", hasDeadline, mock.Anything).Return(fencedAnalysis, nil)

		svc := newAIService(t, completer, contexts, service.WithRequestTimeout(time.Minute))
		_, err := svc.Suggest(context.Background(), service.SuggestRequest{
			Title: "Pay rent", CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})
		require.NoError(t, err)
		completer.AssertExpectations(t)
	})
}

func TestAIService_Rescore(t *testing.T) {
	existing := []domain.TaskDraft{
		{Title: "Write report", Deadline: "2024-06-02", Description: "Q2 numbers"},
		{Title: "Gym"},
	}
	newTask := domain.TaskDraft{Title: "Pay rent", Deadline: "2024-06-03"}

	t.Run("array of n plus one entries keeps model order", func(t *testing.T) {
		completer := new(MockCompleter)
		var sent string
		completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return("```json\n["+
				`{"title":"Pay rent","new_priority_score":9,"recommended_category":"Finance"},`+
				`{"title":"Write report","new_priority_score":7,"recommended_category":"work"},`+
				`{"title":"Gym","new_priority_score":3,"recommended_category":"Health"}`+
				"]\n```", nil)

		svc := newAIService(t, completer, new(MockContextStore))
		entries, err := svc.Rescore(context.Background(), service.RescoreRequest{
			NewTask:      newTask,
			CurrentTasks: existing,
			CurrentDate:  "2024-06-01",
			CurrentDay:   "Saturday",
		})
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "Pay rent", entries[0].Title)
		assert.Equal(t, "Write report", entries[1].Title)
		assert.Equal(t, domain.CategoryWork, entries[1].RecommendedCategory)
		assert.Equal(t, "Gym", entries[2].Title)

		assert.Contains(t, sent, "- Write report (Deadline: 2024-06-02) - Desc: Q2 numbers\n"+
			"- Gym (Deadline: No deadline) - Desc: No description\n"+
			"- Pay rent (Deadline: 2024-06-03) - Desc: No description\n")
	})

	t.Run("wrong entry count fails validation", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(`[{"title":"Pay rent","new_priority_score":9,"recommended_category":"Finance"}]`, nil)

		svc := newAIService(t, completer, new(MockContextStore))
		entries, err := svc.Rescore(context.Background(), service.RescoreRequest{
			NewTask: newTask, CurrentTasks: existing, CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})
		assert.Nil(t, entries)
		assert.ErrorIs(t, err, generation.ErrValidation)
	})

	t.Run("object where array expected is malformed", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(`{"tasks":[]}`, nil)

		svc := newAIService(t, completer, new(MockContextStore))
		_, err := svc.Rescore(context.Background(), service.RescoreRequest{
			NewTask: newTask, CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})

		var aiErr *service.AIServiceError
		require.ErrorAs(t, err, &aiErr)
		assert.Equal(t, service.StageValidating, aiErr.Stage)
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	})

	t.Run("blocked reply", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return("", generation.ErrContentBlocked)

		svc := newAIService(t, completer, new(MockContextStore))
		_, err := svc.Rescore(context.Background(), service.RescoreRequest{
			NewTask: newTask, CurrentDate: "2024-06-01", CurrentDay: "Saturday",
		})
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
	})
}
