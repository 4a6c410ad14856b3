package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	apiMiddleware "github.com/smarttodo/smarttodo-api/internal/api/middleware"
	"github.com/smarttodo/smarttodo-api/internal/api/shared"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(app.config.LLM.RequestTimeout + routeTimeoutSlack))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", app.taskHandler.ListTasks)
		r.Post("/create", app.taskHandler.CreateTask)
		r.Get("/{id}", app.taskHandler.GetTask)
		r.Put("/{id}", app.taskHandler.UpdateTask)
		r.Patch("/{id}", app.taskHandler.PatchTask)
		r.Delete("/{id}", app.taskHandler.DeleteTask)
	})
	r.Get("/categories", app.taskHandler.ListCategories)

	r.Route("/context", func(r chi.Router) {
		r.Get("/", app.contextHandler.ListContext)
		r.Post("/create", app.contextHandler.CreateContext)
	})

	r.Route("/ai", func(r chi.Router) {
		r.Post("/suggest", app.aiHandler.Suggest)
		r.Post("/rescore", app.aiHandler.Rescore)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{shared.TraceIDHeader},
	})

	return c.Handler(r)
}
