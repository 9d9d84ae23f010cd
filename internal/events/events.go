package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TypeTaskSubmitted is emitted after a new task has been stored.
const TypeTaskSubmitted = "task.submitted"

// Event notifies in-process subscribers that something happened to a task.
// Events are hints: the task store stays the source of truth, and a lost
// event only delays processing until the next poll.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names what happened, e.g. TypeTaskSubmitted
	Type string `json:"type"`

	// TaskID is the task the event refers to
	TaskID int64 `json:"task_id"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskSubmittedEvent creates the event announcing a stored task.
func NewTaskSubmittedEvent(taskID int64) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      TypeTaskSubmitted,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that react to events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
