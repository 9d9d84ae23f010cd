package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/generation"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// Outcome is the result of running one claimed task.
type Outcome struct {
	// Content is the normalized generated content; empty on failure.
	Content string

	// Reason explains a failure; nil on success.
	Reason error
}

// Succeeded reports whether the task produced content.
func (o Outcome) Succeeded() bool {
	return o.Reason == nil
}

// Orchestrator runs the generator for a claimed task and records the result.
type Orchestrator struct {
	store     store.TaskStore
	generator generation.Generator
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. If logger is nil, a default logger will be used.
func NewOrchestrator(taskStore store.TaskStore, generator generation.Generator, logger *slog.Logger) *Orchestrator {
	if taskStore == nil {
		panic("task store cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		store:     taskStore,
		generator: generator,
		logger:    logger.With(slog.String("component", "orchestrator")),
	}
}

// Run generates content for a task that is already processing and persists
// the result: completed with the content on success, failed otherwise. The
// result is written on behalf of task.ClaimedBy.
//
// Generator errors and panics never escape; they are reported through the
// Outcome. The returned error is non-nil only when the store could not
// record the result. A deadline on ctx bounds generation only; the result
// is still recorded after it expires.
func (o *Orchestrator) Run(ctx context.Context, task *domain.Task) (Outcome, error) {
	log := logger.FromContextOrDefault(ctx, o.logger).With(
		slog.Int64("task_id", task.ID),
		slog.String("topic", task.Topic),
	)
	ctx = logger.WithLogger(ctx, log)

	log.Info("generating content")

	content, err := o.generate(ctx, task.Topic)
	if err == nil {
		content, err = normalize(content)
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: timed out: %w", generation.ErrGenerationFailed, err)
	}

	recordCtx := context.WithoutCancel(ctx)

	if err != nil {
		log.Error("content generation failed", slog.String("error", err.Error()))
		outcome := Outcome{Reason: err}
		failErr := o.store.Fail(recordCtx, task.ID, task.ClaimedBy)
		return outcome, o.record(recordCtx, log, failErr, domain.TaskStatusFailed)
	}

	outcome := Outcome{Content: content}
	completeErr := o.store.Complete(recordCtx, task.ID, task.ClaimedBy, content)
	if storeErr := o.record(recordCtx, log, completeErr, domain.TaskStatusCompleted); storeErr != nil {
		return outcome, storeErr
	}

	log.Info("content generated", slog.Int("content_length", len(content)))
	return outcome, nil
}

// generate calls the generator, converting a panic into an error.
func (o *Orchestrator) generate(ctx context.Context, topic string) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: generator panicked: %v", generation.ErrGenerationFailed, r)
		}
	}()

	return o.generator.Generate(ctx, topic)
}

// record logs the store result of a status change. A lost claim or an
// invalid transition means another writer owns the outcome; both are logged,
// not returned.
func (o *Orchestrator) record(ctx context.Context, log *slog.Logger, err error, status domain.TaskStatus) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrClaimLost) {
		log.WarnContext(ctx, "task was reclaimed, result discarded",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil
	}

	if errors.Is(err, store.ErrInvalidTransition) {
		log.WarnContext(ctx, "task already finished, result discarded",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil
	}

	log.ErrorContext(ctx, "failed to record task result",
		slog.String("status", string(status)),
		slog.String("error", err.Error()))
	return fmt.Errorf("failed to mark task %s: %w", status, err)
}

func normalize(content string) (string, error) {
	normalized, err := domain.NormalizeContent(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrEmptyContent, err)
	}
	return normalized, nil
}
