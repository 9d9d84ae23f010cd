package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/events"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// Paging bounds shared by the list operations.
const (
	DefaultListLimit   = 50
	DefaultLatestLimit = 10
	MaxLimit           = 1000
)

// SubmitTaskInput carries a new generation request.
type SubmitTaskInput struct {
	Topic  string
	Author string
	Date   string
}

// ListTasksInput selects one page of tasks. Callers fill in DefaultListLimit
// when the client did not ask for a limit.
type ListTasksInput struct {
	Topic  string
	Limit  int
	Offset int
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks  []*domain.Task
	Total  int
	Limit  int
	Offset int
}

// TaskService provides task-related operations
type TaskService interface {
	// SubmitTask validates the request and stores a new pending task.
	// The task is picked up asynchronously by a poller.
	SubmitTask(ctx context.Context, input SubmitTaskInput) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns tasks newest first, optionally filtered by topic.
	ListTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error)

	// LatestTasks returns the newest tasks.
	LatestTasks(ctx context.Context, limit int) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// Option configures optional TaskService collaborators.
type Option func(*taskServiceImpl)

// WithEventEmitter publishes a TypeTaskSubmitted event after every stored task.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *taskServiceImpl) {
		s.emitter = emitter
	}
}

// NewTaskService creates a new TaskService.
// If logger is nil, a default logger will be used.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger, opts ...Option) TaskService {
	if taskStore == nil {
		panic("task store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:  taskStore,
		logger: logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitTask implements TaskService.SubmitTask
func (s *taskServiceImpl) SubmitTask(ctx context.Context, input SubmitTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Topic, input.Author, input.Date)
	if err != nil {
		log.Debug("rejected task submission", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("submit_task", "invalid task", err)
	}

	if err := s.store.Insert(ctx, task); err != nil {
		log.Error("failed to store task",
			slog.String("topic", task.Topic),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("submit_task", "failed to store task", err)
	}

	log.Info("task submitted",
		slog.Int64("task_id", task.ID),
		slog.String("topic", task.Topic))

	// The row is committed; a failed notification only delays pickup.
	if s.emitter != nil {
		if err := s.emitter.EmitEvent(ctx, events.NewTaskSubmittedEvent(task.ID)); err != nil {
			log.Warn("failed to emit task submitted event",
				slog.Int64("task_id", task.ID),
				slog.String("error", err.Error()))
		}
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, ErrTaskNotFound
	}

	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	limit := input.Limit
	if err := validatePaging(limit, input.Offset); err != nil {
		return nil, err
	}

	tasks, total, err := s.store.List(ctx, store.TaskFilter{
		Topic:  input.Topic,
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return &TaskPage{
		Tasks:  tasks,
		Total:  total,
		Limit:  limit,
		Offset: input.Offset,
	}, nil
}

// LatestTasks implements TaskService.LatestTasks
func (s *taskServiceImpl) LatestTasks(ctx context.Context, limit int) ([]*domain.Task, error) {
	if err := validatePaging(limit, 0); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListLatest(ctx, limit)
	if err != nil {
		return nil, NewTaskServiceError("latest_tasks", "failed to list latest tasks", err)
	}
	return tasks, nil
}

func validatePaging(limit, offset int) error {
	if limit < 1 || limit > MaxLimit {
		return domain.NewValidationError("limit", "must be between 1 and 1000", nil)
	}
	if offset < 0 {
		return domain.NewValidationError("offset", "must not be negative", nil)
	}
	return nil
}
