package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

// Ensure TestifyMockTaskStore implements store.TaskStore
var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// Insert is a mock implementation of store.TaskStore.Insert
func (m *TestifyMockTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// ClaimOldestPending is a mock implementation of store.TaskStore.ClaimOldestPending
func (m *TestifyMockTaskStore) ClaimOldestPending(ctx context.Context, claimedBy string) (*domain.Task, error) {
	args := m.Called(ctx, claimedBy)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Complete is a mock implementation of store.TaskStore.Complete
func (m *TestifyMockTaskStore) Complete(ctx context.Context, id int64, claimedBy, content string) error {
	args := m.Called(ctx, id, claimedBy, content)
	return args.Error(0)
}

// Fail is a mock implementation of store.TaskStore.Fail
func (m *TestifyMockTaskStore) Fail(ctx context.Context, id int64, claimedBy string) error {
	args := m.Called(ctx, id, claimedBy)
	return args.Error(0)
}

// Get is a mock implementation of store.TaskStore.Get
func (m *TestifyMockTaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.TaskStore.List
func (m *TestifyMockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error) {
	args := m.Called(ctx, filter)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// ListLatest is a mock implementation of store.TaskStore.ListLatest
func (m *TestifyMockTaskStore) ListLatest(ctx context.Context, limit int) ([]*domain.Task, error) {
	args := m.Called(ctx, limit)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// RequeueStale is a mock implementation of store.TaskStore.RequeueStale
func (m *TestifyMockTaskStore) RequeueStale(ctx context.Context, olderThan time.Duration) ([]int64, error) {
	args := m.Called(ctx, olderThan)
	if ids, ok := args.Get(0).([]int64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
