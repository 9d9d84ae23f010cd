package store

import (
	"context"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
)

// TaskFilter narrows and pages a task listing.
type TaskFilter struct {
	// Topic is matched as a case-insensitive substring. Empty means no filter.
	Topic  string
	Limit  int
	Offset int
}

// TaskStore defines the interface for generation task persistence.
// It is the single source of truth for task status.
// Version: 1.0
type TaskStore interface {
	// Insert stores a new pending task and fills in its ID and timestamps.
	// Returns validation errors from the domain Task if data is invalid.
	Insert(ctx context.Context, task *domain.Task) error

	// ClaimOldestPending atomically moves the oldest pending task (by
	// created_at, then id) to processing and returns it. Concurrent callers
	// never receive the same task. Returns (nil, nil) when nothing is pending.
	ClaimOldestPending(ctx context.Context, claimedBy string) (*domain.Task, error)

	// Complete marks the task completed with the given content on behalf of
	// the claimant that holds it. Repeating the call is harmless; different
	// content overwrites. Content that is empty after trimming whitespace is
	// rejected with ErrInvalidEntity.
	// Returns ErrTaskNotFound if the task does not exist, ErrClaimLost if it
	// was requeued or claimed by someone else, and ErrInvalidTransition if it
	// has already failed.
	Complete(ctx context.Context, id int64, claimedBy, content string) error

	// Fail marks the task failed on behalf of the claimant that holds it,
	// leaving its content untouched.
	// Returns ErrTaskNotFound if the task does not exist, ErrClaimLost if it
	// was requeued or claimed by someone else, and ErrInvalidTransition if it
	// has already completed.
	Fail(ctx context.Context, id int64, claimedBy string) error

	// Get retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// List returns one page of tasks, newest first, and the size of the
	// whole filtered set.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error)

	// ListLatest returns the newest tasks, equivalent to List with no topic
	// filter and a zero offset.
	ListLatest(ctx context.Context, limit int) ([]*domain.Task, error)

	// RequeueStale moves tasks that have been processing without an update
	// for longer than olderThan back to pending, clearing their claimant, and
	// returns their IDs.
	RequeueStale(ctx context.Context, olderThan time.Duration) ([]int64, error)
}
