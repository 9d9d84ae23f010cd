package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/events"
	"github.com/phrazzld/scribe-api/internal/generation"
	"github.com/phrazzld/scribe-api/internal/platform/gemini"
	"github.com/phrazzld/scribe-api/internal/platform/postgres"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/phrazzld/scribe-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore    store.TaskStore
	taskService  service.TaskService
	eventEmitter *events.InMemoryEventEmitter

	// Set only when this process runs the worker role.
	generator generation.Generator
	poller    *task.Poller
}

// newApplication wires the store, service and, for worker processes, the
// Gemini generator and the poller. When one process runs both roles the
// poller subscribes to submissions so new tasks start without waiting for
// the next poll.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.taskService = service.NewTaskService(app.taskStore, logger,
		service.WithEventEmitter(app.eventEmitter))

	if cfg.Server.RunsWorker() {
		generator, err := gemini.NewGeminiGenerator(
			ctx,
			logger.With(slog.String("component", "llm_generator")),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		app.generator = generator
		logger.Info("LLM generator initialized successfully",
			slog.String("model", cfg.LLM.ModelName))

		app.poller = newPoller(app.taskStore, app.generator, cfg.Worker, logger)
		app.eventEmitter.RegisterHandler(app.poller)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newPoller builds a poller from the worker configuration.
func newPoller(
	taskStore store.TaskStore,
	generator generation.Generator,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *task.Poller {
	orchestrator := task.NewOrchestrator(taskStore, generator, logger)
	return task.NewPoller(taskStore, orchestrator, task.PollerConfig{
		PollInterval:       cfg.PollInterval(),
		Instances:          cfg.Instances,
		StaleTaskAge:       cfg.StaleTaskAge(),
		StaleCheckInterval: cfg.StaleCheckInterval(),
		TaskTimeout:        cfg.TaskTimeout(),
	}, logger)
}

// Run starts the configured roles and blocks until ctx is canceled.
// Resources are released before it returns.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.poller != nil {
		if err := app.poller.Start(ctx); err != nil {
			return fmt.Errorf("failed to start poller: %w", err)
		}
	}

	if !app.config.Server.RunsAPI() {
		app.logger.Info("Running in worker mode, HTTP API disabled")
		<-ctx.Done()
		return nil
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
// The poller is stopped first so an in-flight task can record its result.
func (app *application) cleanup() {
	if app.poller != nil {
		app.poller.Stop()
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("Application shutdown completed")
}
