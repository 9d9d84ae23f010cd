package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
	"github.com/phrazzld/scribe-api/internal/store"
)

// taskColumns is the column list shared by every query that returns whole tasks.
const taskColumns = `id, topic, author, requested_date, content, status, claimed_by, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Insert implements store.TaskStore.Insert.
// The database assigns the ID and both timestamps; they are copied back into task.
func (s *PostgresTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task.Status = domain.TaskStatusPending
	task.Content = ""
	task.ClaimedBy = ""
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (topic, author, requested_date, status)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Topic,
		task.Author,
		task.RequestedDate,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()))
		return storeError("insert", "failed to insert task", err)
	}

	log.Info("task inserted",
		slog.Int64("task_id", task.ID),
		slog.String("topic", task.Topic))
	return nil
}

// ClaimOldestPending implements store.TaskStore.ClaimOldestPending.
// The row lock taken with SKIP LOCKED makes selection and status change a
// single atomic step, so concurrent pollers each receive a different task.
func (s *PostgresTaskStore) ClaimOldestPending(
	ctx context.Context,
	claimedBy string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = 'processing', claimed_by = $1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM tasks
			WHERE status = 'pending'
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, claimedBy))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to claim pending task",
			slog.String("claimed_by", claimedBy),
			slog.String("error", err.Error()))
		return nil, storeError("claim", "failed to claim pending task", err)
	}

	log.Debug("task claimed",
		slog.Int64("task_id", task.ID),
		slog.String("claimed_by", claimedBy))
	return task, nil
}

// Complete implements store.TaskStore.Complete.
// Only the current claimant can complete a task; a claim that was requeued
// as stale and possibly handed to another worker no longer counts.
func (s *PostgresTaskStore) Complete(ctx context.Context, id int64, claimedBy, content string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: %w",
			store.ErrInvalidEntity,
			domain.NewValidationError("content", "cannot be empty for a completed task", domain.ErrEmptyContent))
	}

	query := `
		UPDATE tasks
		SET status = 'completed', content = $3, updated_at = NOW()
		WHERE id = $1 AND claimed_by = $2 AND status IN ('processing', 'completed')
	`
	result, err := s.db.ExecContext(ctx, query, id, claimedBy, content)
	if err != nil {
		log.Error("failed to complete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return storeError("complete", "failed to complete task", err)
	}

	if err := s.checkTransition(ctx, result, id, claimedBy, domain.TaskStatusCompleted); err != nil {
		return err
	}

	log.Info("task completed",
		slog.Int64("task_id", id),
		slog.Int("content_length", len(content)))
	return nil
}

// Fail implements store.TaskStore.Fail.
// The claimant rule is the same as for Complete.
func (s *PostgresTaskStore) Fail(ctx context.Context, id int64, claimedBy string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1 AND claimed_by = $2 AND status IN ('processing', 'failed')
	`
	result, err := s.db.ExecContext(ctx, query, id, claimedBy)
	if err != nil {
		log.Error("failed to mark task failed",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return storeError("fail", "failed to mark task failed", err)
	}

	if err := s.checkTransition(ctx, result, id, claimedBy, domain.TaskStatusFailed); err != nil {
		return err
	}

	log.Info("task failed", slog.Int64("task_id", id))
	return nil
}

// checkTransition explains why an update touched no rows: the task is
// missing, another claimant holds it, or its terminal state forbids target.
func (s *PostgresTaskStore) checkTransition(
	ctx context.Context,
	result sql.Result,
	id int64,
	claimedBy string,
	target domain.TaskStatus,
) error {
	rows, err := CheckRowsAffected(result)
	if err != nil {
		return storeError(string(target), "failed to read update result", err)
	}
	if rows > 0 {
		return nil
	}

	var (
		current domain.TaskStatus
		holder  sql.NullString
	)
	err = s.db.QueryRowContext(ctx, `SELECT status, claimed_by FROM tasks WHERE id = $1`, id).
		Scan(&current, &holder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrTaskNotFound
		}
		return storeError(string(target), "failed to read task status", err)
	}

	if holder.String != claimedBy {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task claim no longer held",
			slog.Int64("task_id", id),
			slog.String("claimed_by", claimedBy),
			slog.String("current_claimant", holder.String),
			slog.String("status", string(current)))
		return fmt.Errorf("%w: task %d is %s", store.ErrClaimLost, id, current)
	}

	return fmt.Errorf("%w: task %d is %s, cannot become %s",
		store.ErrInvalidTransition, id, current, target)
}

// Get implements store.TaskStore.Get.
func (s *PostgresTaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, storeError("get", "failed to get task", err)
	}

	return task, nil
}

// List implements store.TaskStore.List.
// The topic filter is a case-insensitive substring match; LIKE wildcards in
// the filter are matched literally.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pattern := escapeLike(filter.Topic)

	countQuery := `
		SELECT COUNT(*) FROM tasks
		WHERE ($1 = '' OR topic ILIKE '%' || $1 || '%' ESCAPE '\')
	`
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("topic_filter", filter.Topic),
			slog.String("error", err.Error()))
		return nil, 0, storeError("list", "failed to count tasks", err)
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1 = '' OR topic ILIKE '%' || $1 || '%' ESCAPE '\')
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	tasks, err := s.queryTasks(ctx, query, pattern, filter.Limit, filter.Offset)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("topic_filter", filter.Topic),
			slog.Int("limit", filter.Limit),
			slog.Int("offset", filter.Offset),
			slog.String("error", err.Error()))
		return nil, 0, storeError("list", "failed to list tasks", err)
	}

	return tasks, total, nil
}

// ListLatest implements store.TaskStore.ListLatest.
func (s *PostgresTaskStore) ListLatest(ctx context.Context, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	tasks, err := s.queryTasks(ctx, query, limit)
	if err != nil {
		log.Error("failed to list latest tasks",
			slog.Int("limit", limit),
			slog.String("error", err.Error()))
		return nil, storeError("list_latest", "failed to list latest tasks", err)
	}

	return tasks, nil
}

// RequeueStale implements store.TaskStore.RequeueStale.
// Age is measured against the database clock so that pollers on hosts with
// skewed clocks agree on which claims are stale.
func (s *PostgresTaskStore) RequeueStale(
	ctx context.Context,
	olderThan time.Duration,
) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = 'pending', claimed_by = NULL, updated_at = NOW()
		WHERE status = 'processing'
		  AND updated_at < NOW() - make_interval(secs => $1)
		RETURNING id
	`
	rows, err := s.db.QueryContext(ctx, query, olderThan.Seconds())
	if err != nil {
		log.Error("failed to requeue stale tasks",
			slog.Duration("older_than", olderThan),
			slog.String("error", err.Error()))
		return nil, storeError("requeue_stale", "failed to requeue stale tasks", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeError("requeue_stale", "failed to scan requeued id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("requeue_stale", "failed to read requeued ids", err)
	}

	if len(ids) > 0 {
		log.Warn("requeued stale tasks",
			slog.Int("count", len(ids)),
			slog.Any("task_ids", ids))
	}
	return ids, nil
}

// queryTasks runs a query returning task rows and scans them all.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// storeError maps a database error and attaches the failed operation.
func storeError(operation, message string, err error) error {
	return store.NewStoreError("task", operation, message, MapError(err))
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		author        sql.NullString
		requestedDate sql.NullString
		claimedBy     sql.NullString
		status        string
	)

	err := row.Scan(
		&task.ID,
		&task.Topic,
		&author,
		&requestedDate,
		&task.Content,
		&status,
		&claimedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Author = author.String
	task.RequestedDate = requestedDate.String
	task.ClaimedBy = claimedBy.String
	task.Status = domain.TaskStatus(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

// likeEscaper escapes the LIKE metacharacters so a filter matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
