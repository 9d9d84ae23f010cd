package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore with the same claim and
// transition rules as the PostgreSQL store. Each Fn field, when set,
// replaces the corresponding method so tests can inject failures.
type MockTaskStore struct {
	InsertFn             func(ctx context.Context, task *domain.Task) error
	ClaimOldestPendingFn func(ctx context.Context, claimedBy string) (*domain.Task, error)
	CompleteFn           func(ctx context.Context, id int64, claimedBy, content string) error
	FailFn               func(ctx context.Context, id int64, claimedBy string) error
	GetFn                func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn               func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error)
	ListLatestFn         func(ctx context.Context, limit int) ([]*domain.Task, error)
	RequeueStaleFn       func(ctx context.Context, olderThan time.Duration) ([]int64, error)

	// Now supplies timestamps; defaults to a clock that advances one
	// millisecond per call so creation order is strict.
	Now func() time.Time

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
	clock  time.Time
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[int64]*domain.Task),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockTaskStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

// Insert implements store.TaskStore.Insert
func (m *MockTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, task)
	}

	task.Status = domain.TaskStatusPending
	task.Content = ""
	task.ClaimedBy = ""
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	task.ID = m.nextID
	task.CreatedAt = m.now()
	task.UpdatedAt = task.CreatedAt

	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// ClaimOldestPending implements store.TaskStore.ClaimOldestPending
func (m *MockTaskStore) ClaimOldestPending(ctx context.Context, claimedBy string) (*domain.Task, error) {
	if m.ClaimOldestPendingFn != nil {
		return m.ClaimOldestPendingFn(ctx, claimedBy)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var oldest *domain.Task
	for _, task := range m.tasks {
		if task.Status != domain.TaskStatusPending {
			continue
		}
		if oldest == nil || task.CreatedAt.Before(oldest.CreatedAt) ||
			(task.CreatedAt.Equal(oldest.CreatedAt) && task.ID < oldest.ID) {
			oldest = task
		}
	}
	if oldest == nil {
		return nil, nil
	}

	oldest.Status = domain.TaskStatusProcessing
	oldest.ClaimedBy = claimedBy
	oldest.UpdatedAt = m.now()

	claimed := *oldest
	return &claimed, nil
}

// Complete implements store.TaskStore.Complete
func (m *MockTaskStore) Complete(ctx context.Context, id int64, claimedBy, content string) error {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, id, claimedBy, content)
	}

	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity,
			domain.NewValidationError("content", "cannot be empty for a completed task", domain.ErrEmptyContent))
	}

	return m.transition(id, claimedBy, domain.TaskStatusCompleted, func(task *domain.Task) {
		task.Content = content
	})
}

// Fail implements store.TaskStore.Fail
func (m *MockTaskStore) Fail(ctx context.Context, id int64, claimedBy string) error {
	if m.FailFn != nil {
		return m.FailFn(ctx, id, claimedBy)
	}

	return m.transition(id, claimedBy, domain.TaskStatusFailed, nil)
}

func (m *MockTaskStore) transition(id int64, claimedBy string, target domain.TaskStatus, apply func(*domain.Task)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if task.ClaimedBy == "" || task.ClaimedBy != claimedBy {
		return fmt.Errorf("%w: task %d is %s", store.ErrClaimLost, id, task.Status)
	}
	if !task.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: task %d is %s, cannot become %s",
			store.ErrInvalidTransition, id, task.Status, target)
	}

	task.Status = target
	if apply != nil {
		apply(task)
	}
	task.UpdatedAt = m.now()
	return nil
}

// Get implements store.TaskStore.Get
func (m *MockTaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

// List implements store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(filter.Topic)
	matched := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if needle == "" || strings.Contains(strings.ToLower(task.Topic), needle) {
			copied := *task
			matched = append(matched, &copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	return matched[start:end], total, nil
}

// ListLatest implements store.TaskStore.ListLatest
func (m *MockTaskStore) ListLatest(ctx context.Context, limit int) ([]*domain.Task, error) {
	if m.ListLatestFn != nil {
		return m.ListLatestFn(ctx, limit)
	}

	tasks, _, err := m.List(ctx, store.TaskFilter{Limit: limit})
	return tasks, err
}

// RequeueStale implements store.TaskStore.RequeueStale
func (m *MockTaskStore) RequeueStale(ctx context.Context, olderThan time.Duration) ([]int64, error) {
	if m.RequeueStaleFn != nil {
		return m.RequeueStaleFn(ctx, olderThan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-olderThan)
	var ids []int64
	for id, task := range m.tasks {
		if task.Status == domain.TaskStatusProcessing && task.UpdatedAt.Before(cutoff) {
			task.Status = domain.TaskStatusPending
			task.ClaimedBy = ""
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Seed stores a task as-is, keeping its status, content and timestamps.
// It assigns an ID when task.ID is zero.
func (m *MockTaskStore) Seed(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ID == 0 {
		m.nextID++
		task.ID = m.nextID
	} else if task.ID > m.nextID {
		m.nextID = task.ID
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = m.now()
		task.UpdatedAt = task.CreatedAt
	}

	stored := *task
	m.tasks[task.ID] = &stored
}

// Snapshot returns a copy of the stored task, or nil if it does not exist.
func (m *MockTaskStore) Snapshot(id int64) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil
	}
	copied := *task
	return &copied
}

// Count returns the number of stored tasks.
func (m *MockTaskStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
