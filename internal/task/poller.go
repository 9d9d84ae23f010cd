package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scribe-api/internal/events"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// PollerConfig holds configuration for the task poller
type PollerConfig struct {
	// PollInterval is how long a loop waits after finding no pending task
	// or hitting a store error.
	PollInterval time.Duration

	// Instances is the number of independent sequential loops started by Start.
	Instances int

	// StaleTaskAge defines how long a task can be in processing state
	// before it is returned to pending. Zero disables reclaiming.
	StaleTaskAge time.Duration

	// StaleCheckInterval defines how often to check for stale tasks.
	// If zero, defaults to 5 minutes
	StaleCheckInterval time.Duration

	// TaskTimeout bounds how long one task may spend in generation. When
	// reclaiming is enabled it is kept below StaleTaskAge so a live worker
	// gives up before its claim can be requeued.
	TaskTimeout time.Duration
}

// DefaultPollerConfig returns a PollerConfig with reasonable defaults
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		PollInterval:       10 * time.Second,
		Instances:          1,
		StaleTaskAge:       30 * time.Minute,
		StaleCheckInterval: 5 * time.Minute,
		TaskTimeout:        10 * time.Minute,
	}
}

// ErrPollerRunning is returned by Start when the poller is already running.
var ErrPollerRunning = errors.New("poller already running")

// Poller claims pending tasks and runs them through the Orchestrator.
type Poller struct {
	store        store.TaskStore
	orchestrator *Orchestrator
	config       PollerConfig
	logger       *slog.Logger

	// id is the claim identity used by PollOnce.
	id string

	// wake cuts an idle sleep short; see Wake.
	wake chan struct{}

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewPoller creates a new Poller. Non-positive settings fall back to the defaults.
func NewPoller(
	taskStore store.TaskStore,
	orchestrator *Orchestrator,
	config PollerConfig,
	logger *slog.Logger,
) *Poller {
	defaults := DefaultPollerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.Instances <= 0 {
		config.Instances = defaults.Instances
	}
	if config.StaleCheckInterval <= 0 {
		config.StaleCheckInterval = defaults.StaleCheckInterval
	}
	if config.StaleTaskAge < 0 {
		config.StaleTaskAge = 0
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = defaults.TaskTimeout
	}
	if config.StaleTaskAge > 0 && config.TaskTimeout >= config.StaleTaskAge {
		config.TaskTimeout = config.StaleTaskAge / 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		store:        taskStore,
		orchestrator: orchestrator,
		config:       config,
		logger:       logger.With(slog.String("component", "poller")),
		id:           uuid.NewString(),
		wake:         make(chan struct{}, 1),
	}
}

var _ events.EventHandler = (*Poller)(nil)

// Start launches the configured number of poll loops and, when reclaiming
// is enabled, the stale task monitor. It returns immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelFunc != nil {
		return ErrPollerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel

	if p.config.StaleTaskAge > 0 {
		// Claims left behind by a crashed process are released before polling.
		p.requeueStale(ctx)

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.staleTaskMonitor(ctx)
		}()
	}

	for i := 0; i < p.config.Instances; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.Run(ctx)
		}()
	}

	p.logger.Info("poller started",
		slog.Int("instances", p.config.Instances),
		slog.Duration("poll_interval", p.config.PollInterval),
		slog.Duration("stale_task_age", p.config.StaleTaskAge),
		slog.Duration("task_timeout", p.config.TaskTimeout))
	return nil
}

// Stop signals every loop to finish and waits for them. A task that is
// already being generated runs to completion first.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancelFunc
	p.cancelFunc = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	p.wg.Wait()
	p.logger.Info("poller stopped")
}

// Run polls until ctx is cancelled. Each call is one sequential instance with
// its own claim identity; it never works on two tasks at once.
func (p *Poller) Run(ctx context.Context) {
	instanceID := uuid.NewString()
	log := p.logger.With(slog.String("instance_id", instanceID))
	ctx = logger.WithLogger(ctx, log)

	log.Debug("poll loop starting")
	defer log.Debug("poll loop stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		processed, err := p.pollOnce(ctx, instanceID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("poll iteration failed", slog.String("error", err.Error()))
		}

		// Drain the queue without delay while tasks keep coming.
		if processed && err == nil {
			continue
		}

		if !p.sleep(ctx) {
			return
		}
	}
}

// PollOnce performs a single iteration: claim the oldest pending task and, if
// there is one, run it. It reports whether a task was processed.
func (p *Poller) PollOnce(ctx context.Context) (bool, error) {
	return p.pollOnce(logger.WithLogger(ctx, p.logger), p.id)
}

func (p *Poller) pollOnce(ctx context.Context, claimedBy string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	task, err := p.store.ClaimOldestPending(ctx, claimedBy)
	if err != nil {
		return false, fmt.Errorf("failed to claim pending task: %w", err)
	}
	if task == nil {
		log.Debug("no pending tasks")
		return false, nil
	}

	log.Info("task claimed",
		slog.Int64("task_id", task.ID),
		slog.String("topic", task.Topic))

	// Stop must not abandon a claimed task halfway.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.TaskTimeout)
	defer cancel()
	start := time.Now()

	outcome, err := p.orchestrator.Run(runCtx, task)
	if err != nil {
		return true, fmt.Errorf("failed to record result of task %d: %w", task.ID, err)
	}

	log.Info("task finished",
		slog.Int64("task_id", task.ID),
		slog.Bool("succeeded", outcome.Succeeded()),
		slog.Duration("duration", time.Since(start)))
	return true, nil
}

// staleTaskMonitor periodically returns tasks that have been in processing
// state for too long to pending
func (p *Poller) staleTaskMonitor(ctx context.Context) {
	ticker := time.NewTicker(p.config.StaleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.requeueStale(ctx)
		}
	}
}

func (p *Poller) requeueStale(ctx context.Context) {
	ids, err := p.store.RequeueStale(ctx, p.config.StaleTaskAge)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("failed to requeue stale tasks", slog.String("error", err.Error()))
		}
		return
	}

	if len(ids) > 0 {
		p.logger.Warn("requeued stale tasks",
			slog.Int("count", len(ids)),
			slog.Any("task_ids", ids))
	}
}

// Wake makes one idle loop poll immediately. It never blocks; wake-ups
// that arrive while one is already pending are merged.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// HandleEvent wakes the poller when a task is submitted in this process.
func (p *Poller) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type == events.TypeTaskSubmitted {
		p.Wake()
	}
	return nil
}

// sleep waits for the poll interval, a wake-up, or ctx to be done. It
// returns false only when ctx is done.
func (p *Poller) sleep(ctx context.Context) bool {
	timer := time.NewTimer(p.config.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-p.wake:
		return true
	case <-timer.C:
		return true
	}
}
