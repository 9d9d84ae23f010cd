package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/service"
)

// SubmitStatusStarted is the status reported for an accepted submission.
const SubmitStatusStarted = "started"

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// SubmitTask handles POST /tasks requests.
// It stores a pending task and returns its ID without waiting for generation.
func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid submission body", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.SubmitTask(r.Context(), service.SubmitTaskInput{
		Topic:  req.Topic,
		Author: req.Author,
		Date:   req.Date,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SubmitTaskResponse{
		Status: SubmitStatusStarted,
		TaskID: task.ID,
	})
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListTasks handles GET /tasks requests with optional topic, limit and offset.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", service.DefaultListLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	offset, err := getQueryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.ListTasks(r.Context(), service.ListTasksInput{
		Topic:  r.URL.Query().Get("topic"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	results := tasksToResponses(page.Tasks)
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Results: results,
		Count:   len(results),
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

// LatestTasks handles GET /tasks/latest requests.
func (h *TaskHandler) LatestTasks(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", service.DefaultLatestLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.LatestTasks(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	results := tasksToResponses(tasks)
	shared.RespondWithJSON(w, r, http.StatusOK, LatestTasksResponse{
		Results: results,
		Count:   len(results),
		Limit:   limit,
	})
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
