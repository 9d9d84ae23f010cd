package task

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/events"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_WakeCutsIdleSleepShort(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	generator := mocks.NewMockGeneratorWithContent("# Woken\n\nBody")
	cfg := fastConfig()
	cfg.PollInterval = time.Hour

	poller := newTestPoller(taskStore, generator, cfg)
	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	// Let the loop find the empty queue and go to sleep.
	time.Sleep(20 * time.Millisecond)

	task := insertTasks(t, taskStore, 1)[0]
	emitter := events.NewInMemoryEventEmitter(discardLogger())
	emitter.RegisterHandler(poller)
	require.NoError(t, emitter.EmitEvent(context.Background(), events.NewTaskSubmittedEvent(task.ID)))

	require.Eventually(t, func() bool {
		return taskStore.Snapshot(task.ID).Status == domain.TaskStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_WakeNeverBlocks(t *testing.T) {
	t.Parallel()

	poller := newTestPoller(mocks.NewMockTaskStore(), mocks.NewMockGeneratorWithContent("x"), fastConfig())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			poller.Wake()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wake blocked without a running loop")
	}
}

func TestPoller_HandleEventIgnoresOtherTypes(t *testing.T) {
	t.Parallel()

	poller := newTestPoller(mocks.NewMockTaskStore(), mocks.NewMockGeneratorWithContent("x"), fastConfig())

	require.NoError(t, poller.HandleEvent(context.Background(), &events.Event{Type: "task.deleted"}))
	assert.Empty(t, poller.wake)

	require.NoError(t, poller.HandleEvent(context.Background(), events.NewTaskSubmittedEvent(1)))
	assert.Len(t, poller.wake, 1)
}
