package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/phrazzld/scribe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(s store.TaskStore) service.TaskService {
	return service.NewTaskService(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmitTask(t *testing.T) {
	t.Parallel()

	t.Run("stores a pending task", func(t *testing.T) {
		t.Parallel()

		taskStore := mocks.NewMockTaskStore()
		svc := newService(taskStore)

		task, err := svc.SubmitTask(context.Background(), service.SubmitTaskInput{
			Topic:  "  Go 1.23 release  ",
			Author: "Ada",
			Date:   "2024-08-13",
		})
		require.NoError(t, err)
		assert.Positive(t, task.ID)

		stored := taskStore.Snapshot(task.ID)
		require.NotNil(t, stored)
		assert.Equal(t, "Go 1.23 release", stored.Topic)
		assert.Equal(t, "Ada", stored.Author)
		assert.Equal(t, "2024-08-13", stored.RequestedDate)
		assert.Equal(t, domain.TaskStatusPending, stored.Status)
		assert.Empty(t, stored.Content)
	})

	t.Run("blank topic is a validation error and stores nothing", func(t *testing.T) {
		t.Parallel()

		for _, topic := range []string{"", "   ", "\t\n"} {
			taskStore := mocks.NewMockTaskStore()
			svc := newService(taskStore)

			task, err := svc.SubmitTask(context.Background(), service.SubmitTaskInput{Topic: topic})
			assert.Nil(t, task)
			assert.ErrorIs(t, err, domain.ErrValidation, "topic %q", topic)
			assert.Zero(t, taskStore.Count())
		}
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection refused")
		taskStore := &mocks.TestifyMockTaskStore{}
		taskStore.On("Insert", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.Topic == "topic"
		})).Return(dbErr)

		svc := newService(taskStore)
		_, err := svc.SubmitTask(context.Background(), service.SubmitTaskInput{Topic: "topic"})

		var serviceErr *service.TaskServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "submit_task", serviceErr.Operation)
		assert.ErrorIs(t, err, dbErr)
		taskStore.AssertExpectations(t)
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	svc := newService(taskStore)

	created, err := svc.SubmitTask(context.Background(), service.SubmitTaskInput{Topic: "lookup"})
	require.NoError(t, err)

	got, err := svc.GetTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup", got.Topic)

	for _, id := range []int64{0, -1, created.ID + 100} {
		_, err := svc.GetTask(context.Background(), id)
		assert.ErrorIs(t, err, service.ErrTaskNotFound, "id %d", id)
	}
}

func TestGetTask_StoreError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("timeout")
	taskStore := &mocks.TestifyMockTaskStore{}
	taskStore.On("Get", mock.Anything, int64(7)).Return(nil, dbErr)

	_, err := newService(taskStore).GetTask(context.Background(), 7)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, service.ErrTaskNotFound)
	taskStore.AssertExpectations(t)
}

func TestListTasks_Pagination(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	svc := newService(taskStore)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.SubmitTask(ctx, service.SubmitTaskInput{Topic: fmt.Sprintf("topic %02d", i)})
		require.NoError(t, err)
	}

	page, err := svc.ListTasks(ctx, service.ListTasksInput{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 60, page.Total)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 50, page.Offset)
	require.Len(t, page.Tasks, 10)
	assert.Equal(t, "topic 09", page.Tasks[0].Topic)
	assert.Equal(t, "topic 00", page.Tasks[9].Topic)

	page, err = svc.ListTasks(ctx, service.ListTasksInput{Topic: "TOPIC 5", Limit: service.DefaultListLimit})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
}

func TestListTasks_InvalidPaging(t *testing.T) {
	t.Parallel()

	svc := newService(mocks.NewMockTaskStore())

	tests := []struct {
		name  string
		input service.ListTasksInput
	}{
		{"zero limit", service.ListTasksInput{Limit: 0}},
		{"negative limit", service.ListTasksInput{Limit: -5}},
		{"limit too large", service.ListTasksInput{Limit: service.MaxLimit + 1}},
		{"negative offset", service.ListTasksInput{Limit: 10, Offset: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := svc.ListTasks(context.Background(), tt.input)
			assert.Nil(t, page)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLatestTasks(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	svc := newService(taskStore)
	ctx := context.Background()

	tasks, err := svc.LatestTasks(ctx, service.DefaultLatestLimit)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	for i := 0; i < 15; i++ {
		_, err := svc.SubmitTask(ctx, service.SubmitTaskInput{Topic: fmt.Sprintf("t%d", i)})
		require.NoError(t, err)
	}

	tasks, err = svc.LatestTasks(ctx, service.DefaultLatestLimit)
	require.NoError(t, err)
	require.Len(t, tasks, 10)
	assert.Equal(t, "t14", tasks[0].Topic)

	_, err = svc.LatestTasks(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTaskServiceError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, service.NewTaskServiceError("op", "msg", nil))
	assert.Equal(t, service.ErrTaskNotFound,
		service.NewTaskServiceError("op", "msg", fmt.Errorf("wrapped: %w", store.ErrTaskNotFound)))

	validation := domain.NewValidationError("topic", "cannot be empty", nil)
	assert.Same(t, validation, service.NewTaskServiceError("op", "msg", validation))

	err := service.NewTaskServiceError("list_tasks", "failed to list tasks", errors.New("boom"))
	assert.EqualError(t, err, "task service list_tasks failed: failed to list tasks: boom")
}
