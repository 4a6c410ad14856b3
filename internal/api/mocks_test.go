package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateFn         func(ctx context.Context, in service.TaskInput) (*domain.Task, error)
	GetFn            func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn           func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn         func(ctx context.Context, id uuid.UUID, in service.TaskInput) (*domain.Task, error)
	PatchFn          func(ctx context.Context, id uuid.UUID, p service.TaskPatch) (*domain.Task, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	ListCategoriesFn func(ctx context.Context) ([]*domain.Category, error)
}

func (m *MockTaskService) Create(ctx context.Context, in service.TaskInput) (*domain.Task, error) {
	return m.CreateFn(ctx, in)
}

func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.GetFn(ctx, id)
}

func (m *MockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return m.ListFn(ctx)
}

func (m *MockTaskService) Update(ctx context.Context, id uuid.UUID, in service.TaskInput) (*domain.Task, error) {
	return m.UpdateFn(ctx, id, in)
}

func (m *MockTaskService) Patch(ctx context.Context, id uuid.UUID, p service.TaskPatch) (*domain.Task, error) {
	return m.PatchFn(ctx, id, p)
}

func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func (m *MockTaskService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return m.ListCategoriesFn(ctx)
}

// MockContextService is a mock implementation of service.ContextService for testing
type MockContextService struct {
	CreateFn func(ctx context.Context, content string, source domain.SourceType) (*domain.ContextEntry, error)
	ListFn   func(ctx context.Context) ([]*domain.ContextEntry, error)
}

func (m *MockContextService) Create(
	ctx context.Context,
	content string,
	source domain.SourceType,
) (*domain.ContextEntry, error) {
	return m.CreateFn(ctx, content, source)
}

func (m *MockContextService) List(ctx context.Context) ([]*domain.ContextEntry, error) {
	return m.ListFn(ctx)
}

// MockAIService is a mock implementation of service.AIService for testing
type MockAIService struct {
	SuggestFn func(ctx context.Context, req service.SuggestRequest) (*domain.AnalysisResult, error)
	RescoreFn func(ctx context.Context, req service.RescoreRequest) ([]domain.RescoreEntry, error)
}

func (m *MockAIService) Suggest(ctx context.Context, req service.SuggestRequest) (*domain.AnalysisResult, error) {
	return m.SuggestFn(ctx, req)
}

func (m *MockAIService) Rescore(ctx context.Context, req service.RescoreRequest) ([]domain.RescoreEntry, error) {
	return m.RescoreFn(ctx, req)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve routes a single request through a chi router so URL parameters
// resolve the same way they do in the server.
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
