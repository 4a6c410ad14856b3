package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/smarttodo/smarttodo-api/internal/api"
	"github.com/smarttodo/smarttodo-api/internal/config"
	"github.com/smarttodo/smarttodo-api/internal/generation"
	"github.com/smarttodo/smarttodo-api/internal/generation/prompt"
	"github.com/smarttodo/smarttodo-api/internal/platform/gemini"
	"github.com/smarttodo/smarttodo-api/internal/platform/openai"
	"github.com/smarttodo/smarttodo-api/internal/platform/sqlstore"
	"github.com/smarttodo/smarttodo-api/internal/service"
)

const readHeaderTimeout = 10 * time.Second

// routeTimeoutSlack keeps the router timeout above the model timeout so a
// slow model is reported as 504 by the handler, not cut off by chi.
const routeTimeoutSlack = 5 * time.Second

// application holds the shared dependencies of the server and releases
// them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskHandler    *api.TaskHandler
	contextHandler *api.ContextHandler
	aiHandler      *api.AIHandler
}

// newProvider builds the language-model provider selected by cfg.
func newProvider(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (generation.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := gemini.NewProvider(ctx, gemini.Config{
			APIKey:    cfg.APIKey,
			ModelName: cfg.ModelName,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini provider: %w", err)
		}
		log.Info("LLM provider initialized", "provider", p.Name(), "model", p.Model())
		return p, nil
	case config.ProviderOpenAI:
		p, err := openai.NewProvider(openai.Config{
			Endpoint:  cfg.Endpoint,
			APIKey:    cfg.APIKey,
			ModelName: cfg.ModelName,
		}, &http.Client{}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai provider: %w", err)
		}
		log.Info("LLM provider initialized", "provider", p.Name(), "model", cfg.ModelName)
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// newApplication wires stores, services and handlers over db and provider.
func newApplication(
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
	provider generation.Provider,
) (*application, error) {
	tasks := sqlstore.NewTaskStore(db, dialect, log)
	categories := sqlstore.NewCategoryStore(db, dialect, log)
	contexts := sqlstore.NewContextStore(db, dialect, log)

	prompts, err := prompt.NewBuilder(cfg.LLM.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	gateway, err := generation.NewGateway(provider, log)
	if err != nil {
		return nil, err
	}

	taskService, err := service.NewTaskService(db, tasks, categories, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	contextService, err := service.NewContextService(contexts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create context service: %w", err)
	}
	aiService, err := service.NewAIService(prompts, gateway, contexts, log,
		service.WithRequestTimeout(cfg.LLM.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         log,
		db:             db,
		taskHandler:    api.NewTaskHandler(taskService, log),
		contextHandler: api.NewContextHandler(contextService, log),
		aiHandler:      api.NewAIHandler(aiService, log),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		app.logger.Info("Closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
