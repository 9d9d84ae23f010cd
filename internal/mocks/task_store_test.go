package mocks_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insert(t *testing.T, s *mocks.MockTaskStore, topic string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(topic, "", "")
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), task))
	return task
}

func TestMockTaskStore_ClaimOrderAndExclusivity(t *testing.T) {
	t.Parallel()

	s := mocks.NewMockTaskStore()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		insert(t, s, "topic")
	}

	var (
		mu      sync.Mutex
		claimed []int64
		wg      sync.WaitGroup
	)
	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, err := s.ClaimOldestPending(ctx, "w")
				if err != nil || task == nil {
					return
				}
				mu.Lock()
				claimed = append(claimed, task.ID)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, id := range claimed {
		assert.False(t, seen[id], "task %d claimed twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}

func TestMockTaskStore_Transitions(t *testing.T) {
	t.Parallel()

	s := mocks.NewMockTaskStore()
	ctx := context.Background()

	done := insert(t, s, "done")
	failed := insert(t, s, "failed")
	_, err := s.ClaimOldestPending(ctx, "w")
	require.NoError(t, err)
	_, err = s.ClaimOldestPending(ctx, "w")
	require.NoError(t, err)

	require.NoError(t, s.Complete(ctx, done.ID, "w", "body"))
	require.NoError(t, s.Complete(ctx, done.ID, "w", "body v2"))
	assert.Equal(t, "body v2", s.Snapshot(done.ID).Content)
	assert.ErrorIs(t, s.Fail(ctx, done.ID, "w"), store.ErrInvalidTransition)

	require.NoError(t, s.Fail(ctx, failed.ID, "w"))
	assert.ErrorIs(t, s.Complete(ctx, failed.ID, "w", "late"), store.ErrInvalidTransition)

	assert.ErrorIs(t, s.Complete(ctx, 99, "w", "x"), store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Complete(ctx, done.ID, "w", ""), store.ErrInvalidEntity)
	assert.ErrorIs(t, s.Complete(ctx, done.ID, "w", " \n\t "), store.ErrInvalidEntity)
	assert.Equal(t, "body v2", s.Snapshot(done.ID).Content)

	pending := insert(t, s, "pending")
	assert.ErrorIs(t, s.Complete(ctx, pending.ID, "", "body"), store.ErrClaimLost)
	assert.ErrorIs(t, s.Fail(ctx, pending.ID, "w"), store.ErrClaimLost)
}

func TestMockTaskStore_ReclaimedTaskRejectsFormerClaimant(t *testing.T) {
	t.Parallel()

	s := mocks.NewMockTaskStore()
	ctx := context.Background()

	task := insert(t, s, "slow generation")
	_, err := s.ClaimOldestPending(ctx, "worker-a")
	require.NoError(t, err)

	ids, err := s.RequeueStale(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{task.ID}, ids)

	reclaimed, err := s.ClaimOldestPending(ctx, "worker-b")
	require.NoError(t, err)
	require.NotNil(t, reclaimed)
	require.Equal(t, task.ID, reclaimed.ID)

	require.NoError(t, s.Complete(ctx, task.ID, "worker-b", "content from B"))
	assert.ErrorIs(t, s.Complete(ctx, task.ID, "worker-a", "content from A"), store.ErrClaimLost)
	assert.ErrorIs(t, s.Fail(ctx, task.ID, "worker-a"), store.ErrClaimLost)

	got := s.Snapshot(task.ID)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	assert.Equal(t, "content from B", got.Content)
}

func TestMockTaskStore_ListAndRequeue(t *testing.T) {
	t.Parallel()

	s := mocks.NewMockTaskStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insert(t, s, "Alpha")
	}
	insert(t, s, "beta")

	tasks, total, err := s.List(ctx, store.TaskFilter{Topic: "ALPHA", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(4), tasks[0].ID)
	assert.Equal(t, int64(3), tasks[1].ID)

	latest, err := s.ListLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "beta", latest[0].Topic)

	claimed, err := s.ClaimOldestPending(ctx, "w")
	require.NoError(t, err)
	ids, err := s.RequeueStale(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{claimed.ID}, ids)

	ids, err = s.RequeueStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
