package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a generation task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is a single persisted request to generate content for a topic,
// together with its eventual result.
type Task struct {
	ID            int64      `json:"id"`
	Topic         string     `json:"topic"`
	Author        string     `json:"author"`
	RequestedDate string     `json:"date"`
	Content       string     `json:"content"`
	Status        TaskStatus `json:"status"`
	ClaimedBy     string     `json:"claimed_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTask creates a pending task for topic. The topic is trimmed and must not
// be empty afterwards. Author and date are carried through untouched.
// ID and timestamps are assigned by the store on insert.
func NewTask(topic, author, requestedDate string) (*Task, error) {
	task := &Task{
		Topic:         strings.TrimSpace(topic),
		Author:        author,
		RequestedDate: requestedDate,
		Status:        TaskStatusPending,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the fields a task must satisfy before it is stored.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Topic) == "" {
		return NewValidationError("topic", "cannot be empty", ErrEmptyContent)
	}

	if !t.Status.IsValid() {
		return NewValidationError("status", "is not a known task status", ErrInvalidTaskStatus)
	}

	if (t.Status == TaskStatusCompleted) != (t.Content != "") {
		return NewValidationError("content", "must be set exactly when the task is completed", nil)
	}

	return nil
}

// IsValid reports whether s is one of the four known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further core-driven transition leaves s.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether moving from s to next is allowed.
//
// Terminal states only accept themselves (repeated completion or failure
// reports are idempotent). processing -> pending is the stale-claim reclaim.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing || next == TaskStatusCompleted || next == TaskStatusFailed
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusFailed || next == TaskStatusPending
	case TaskStatusCompleted:
		return next == TaskStatusCompleted
	case TaskStatusFailed:
		return next == TaskStatusFailed
	default:
		return false
	}
}

// NormalizeContent coerces generator output into displayable text: invalid
// UTF-8 sequences are replaced and surrounding whitespace removed.
// Returns ErrEmptyContent when nothing remains.
func NormalizeContent(content string) (string, error) {
	normalized := strings.TrimSpace(strings.ToValidUTF8(content, "�"))
	if normalized == "" {
		return "", ErrEmptyContent
	}
	return normalized, nil
}
