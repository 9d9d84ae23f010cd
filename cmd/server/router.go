package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scribe-api/internal/api"
	apiMiddleware "github.com/phrazzld/scribe-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Get("/health", api.Health)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.SubmitTask)
		r.Get("/", taskHandler.ListTasks)
		r.Get("/latest", taskHandler.LatestTasks)
		r.Get("/{id}", taskHandler.GetTask)
	})

	// Paths used by earlier clients.
	r.Route("/webhook", func(r chi.Router) {
		r.Post("/start-blogpost", taskHandler.SubmitTask)
		r.Get("/results", taskHandler.ListTasks)
		r.Get("/results/latest", taskHandler.LatestTasks)
		r.Get("/results/{id}", taskHandler.GetTask)
	})

	return r
}
