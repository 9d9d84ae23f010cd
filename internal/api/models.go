package api

import (
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
)

// SubmitTaskRequest defines the payload for the task submission endpoint.
// The topic is trimmed by the domain; whitespace-only topics are rejected there.
type SubmitTaskRequest struct {
	Topic  string `json:"topic"  validate:"required,max=500"`
	Author string `json:"author" validate:"max=200"`
	Date   string `json:"date"   validate:"max=100"`
}

// SubmitTaskResponse acknowledges a stored task.
type SubmitTaskResponse struct {
	Status string `json:"status"`
	TaskID int64  `json:"task_id"`
}

// TaskResponse is the public projection of a task.
type TaskResponse struct {
	ID        int64   `json:"id"`
	Topic     string  `json:"topic"`
	Author    *string `json:"author"`
	Date      *string `json:"date"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"created_at"`
	Status    string  `json:"status"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Results []TaskResponse `json:"results"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// LatestTasksResponse lists the newest tasks.
type LatestTasksResponse struct {
	Results []TaskResponse `json:"results"`
	Count   int            `json:"count"`
	Limit   int            `json:"limit"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Topic:     task.Topic,
		Author:    optional(task.Author),
		Date:      optional(task.RequestedDate),
		Content:   task.Content,
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339),
		Status:    string(task.Status),
	}
}

func tasksToResponses(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}

// optional maps the empty string to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
