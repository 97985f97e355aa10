package domain

import "time"

// Email job status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSent       = "sent"
	StatusFailed     = "failed"
)

// Email job type constants. The type determines which template family the
// processor renders at send time.
const (
	TypeContact          = "contact"
	TypeContactAdmin     = "contact_admin"
	TypeConsultancy      = "consultancy"
	TypeConsultancyAdmin = "consultancy_admin"
	TypeBlogNotification = "blog_notification"
)

const (
	// DefaultMaxRetries is the retry budget assigned to new jobs.
	DefaultMaxRetries = 5

	// DefaultBatchSize bounds how many due jobs one processing pass claims.
	DefaultBatchSize = 20
)

// EmailJob is one queued attempt to deliver a single email to a single
// recipient. Bulk sends enqueue one job per recipient.
type EmailJob struct {
	ID           string     `db:"id" json:"id"`
	Type         string     `db:"type" json:"type"`
	Recipient    string     `db:"recipient" json:"recipient"`
	Subject      string     `db:"subject" json:"subject"`
	Body         string     `db:"body" json:"body"`
	Metadata     string     `db:"metadata" json:"metadata,omitempty"`
	Status       string     `db:"status" json:"status"`
	RetryCount   int        `db:"retry_count" json:"retry_count"`
	MaxRetries   int        `db:"max_retries" json:"max_retries"`
	LastAttempt  *time.Time `db:"last_attempt" json:"last_attempt,omitempty"`
	NextRetryAt  *time.Time `db:"next_retry_at" json:"next_retry_at,omitempty"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Due reports whether the job is eligible for a delivery attempt at the
// given instant: retryable status, retry budget remaining, and scheduled
// time reached (a nil NextRetryAt means eligible immediately).
func (j *EmailJob) Due(now time.Time) bool {
	if j.Status != StatusPending && j.Status != StatusFailed {
		return false
	}
	if j.RetryCount >= j.MaxRetries {
		return false
	}
	if j.NextRetryAt != nil && j.NextRetryAt.After(now) {
		return false
	}
	return true
}

// TerminallyFailed reports whether the job has exhausted its retry budget
// and will not be picked up automatically again.
func (j *EmailJob) TerminallyFailed() bool {
	return j.Status == StatusFailed && j.RetryCount >= j.MaxRetries
}

// QueueStats is the operator-facing aggregate view of the queue. Failed
// counts only terminally failed jobs; jobs still eligible for auto-retry
// are not part of the dead count.
type QueueStats struct {
	Pending    int `db:"pending" json:"pending"`
	Processing int `db:"processing" json:"processing"`
	Sent       int `db:"sent" json:"sent"`
	Failed     int `db:"failed" json:"failed"`
	Total      int `db:"total" json:"total"`
}
