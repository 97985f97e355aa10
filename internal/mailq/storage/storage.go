package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const jobColumns = `
	id, type, recipient, subject, body, metadata, status,
	retry_count, max_retries, last_attempt, next_retry_at,
	error_message, sent_at, created_at, updated_at
`

// Storage handles all database operations on the email queue.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance.
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// EnqueueParams describes a new job. Metadata is the serialized variant for
// the job's type; Body is the raw fallback sent verbatim when no template
// family matches. A zero MaxRetries gets the default budget.
type EnqueueParams struct {
	Type       string
	Recipient  string
	Subject    string
	Body       string
	Metadata   string
	MaxRetries int
}

// Enqueue inserts a new job with status pending, eligible immediately.
func (s *Storage) Enqueue(ctx context.Context, p EnqueueParams) (*domain.EmailJob, error) {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = domain.DefaultMaxRetries
	}

	now := time.Now()
	job := domain.EmailJob{
		ID:          uuid.New().String(),
		Type:        p.Type,
		Recipient:   p.Recipient,
		Subject:     p.Subject,
		Body:        p.Body,
		Metadata:    p.Metadata,
		Status:      domain.StatusPending,
		MaxRetries:  maxRetries,
		NextRetryAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO email_jobs (
			id, type, recipient, subject, body, metadata, status,
			retry_count, max_retries, next_retry_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			0, $8, $9, $10, $11
		)
	`

	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Recipient, job.Subject, job.Body, job.Metadata,
		job.Status, job.MaxRetries, job.NextRetryAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue email job: %w", err)
	}

	s.logger.Info("Email job enqueued",
		slog.String("job_id", job.ID),
		slog.String("type", job.Type),
		slog.String("recipient", job.Recipient),
	)

	return &job, nil
}

// ListDue returns jobs eligible for a delivery attempt right now: status
// pending or failed, retry budget remaining, scheduled time reached.
// Oldest-created first, capped at limit.
func (s *Storage) ListDue(ctx context.Context, limit int) ([]domain.EmailJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM email_jobs
		WHERE status IN ($1, $2)
		  AND retry_count < max_retries
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at ASC
		LIMIT $3
	`

	var jobs []domain.EmailJob
	err := s.db.SelectContext(ctx, &jobs, query, domain.StatusPending, domain.StatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due email jobs: %w", err)
	}

	return jobs, nil
}

// ClaimDue atomically claims up to limit due jobs for one processing pass,
// transitioning them to processing and stamping the attempt time. The
// claim is a single conditional update, so overlapping passes never pick
// the same job twice.
func (s *Storage) ClaimDue(ctx context.Context, limit int) ([]domain.EmailJob, error) {
	query := `
		UPDATE email_jobs
		SET status = $1,
		    last_attempt = NOW(),
		    updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM email_jobs
			WHERE status IN ($2, $3)
			  AND retry_count < max_retries
			  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
			ORDER BY created_at ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	var jobs []domain.EmailJob
	err := s.db.SelectContext(ctx, &jobs, query,
		domain.StatusProcessing, domain.StatusPending, domain.StatusFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due email jobs: %w", err)
	}

	// RETURNING does not guarantee row order; restore FIFO fairness.
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.Before(jobs[k].CreatedAt)
	})

	return jobs, nil
}

// MarkSent records a successful delivery: status sent, sent_at stamped,
// scheduling and error state cleared.
func (s *Storage) MarkSent(ctx context.Context, jobID string) error {
	query := `
		UPDATE email_jobs
		SET status = $1,
		    sent_at = NOW(),
		    next_retry_at = NULL,
		    error_message = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, domain.StatusSent, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark email job sent: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrJobNotFound
	}

	s.logger.Info("Email job sent",
		slog.String("job_id", jobID),
	)

	return nil
}

// MarkFailed records a failed delivery attempt: status failed, error
// message stored, retry count incremented, and the next attempt scheduled
// with exponential backoff. Only the claiming pass mutates a processing
// job, so the read-then-write pair has a single writer.
func (s *Storage) MarkFailed(ctx context.Context, jobID, errMsg string) error {
	job, err := s.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	retryCount := job.RetryCount + 1
	nextRetryAt := time.Now().Add(domain.RetryDelay(retryCount))

	query := `
		UPDATE email_jobs
		SET status = $1,
		    error_message = $2,
		    retry_count = $3,
		    next_retry_at = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	_, err = s.db.ExecContext(ctx, query, domain.StatusFailed, errMsg, retryCount, nextRetryAt, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark email job failed: %w", err)
	}

	s.logger.Warn("Email job delivery failed",
		slog.String("job_id", jobID),
		slog.Int("retry_count", retryCount),
		slog.Int("max_retries", job.MaxRetries),
		slog.Time("next_retry_at", nextRetryAt),
		slog.String("error", errMsg),
	)

	return nil
}

// ResetForRetry makes a job immediately eligible again, bypassing backoff:
// status pending, next attempt now, error and sent_at cleared. The retry
// count is kept so the reset still counts toward the retry budget.
func (s *Storage) ResetForRetry(ctx context.Context, jobID string) error {
	query := `
		UPDATE email_jobs
		SET status = $1,
		    next_retry_at = NOW(),
		    error_message = NULL,
		    sent_at = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, domain.StatusPending, jobID)
	if err != nil {
		return fmt.Errorf("failed to reset email job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrJobNotFound
	}

	s.logger.Info("Email job reset for manual retry",
		slog.String("job_id", jobID),
	)

	return nil
}

// GetByID retrieves one job by id.
func (s *Storage) GetByID(ctx context.Context, jobID string) (*domain.EmailJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM email_jobs
		WHERE id = $1
	`

	var job domain.EmailJob
	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get email job: %w", err)
	}

	return &job, nil
}

// CountByStatus returns the aggregate queue stats. The failed bucket counts
// only terminally failed jobs.
func (s *Storage) CountByStatus(ctx context.Context) (domain.QueueStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $1) AS pending,
			COUNT(*) FILTER (WHERE status = $2) AS processing,
			COUNT(*) FILTER (WHERE status = $3) AS sent,
			COUNT(*) FILTER (WHERE status = $4 AND retry_count >= max_retries) AS failed,
			COUNT(*) AS total
		FROM email_jobs
	`

	var stats domain.QueueStats
	err := s.db.GetContext(ctx, &stats, query,
		domain.StatusPending, domain.StatusProcessing, domain.StatusSent, domain.StatusFailed,
	)
	if err != nil {
		return domain.QueueStats{}, fmt.Errorf("failed to count email jobs: %w", err)
	}

	return stats, nil
}

// ListFilter narrows the operator listing by status and/or type.
type ListFilter struct {
	Status string
	Type   string
}

// ListPaged returns one page of jobs for the operator view, newest first,
// along with the total matching count.
func (s *Storage) ListPaged(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.EmailJob, int, error) {
	if page < 1 {
		page = 1
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM email_jobs" + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count email jobs page: %w", err)
	}

	query := "SELECT " + jobColumns + " FROM email_jobs" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var jobs []domain.EmailJob
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list email jobs page: %w", err)
	}

	return jobs, total, nil
}
