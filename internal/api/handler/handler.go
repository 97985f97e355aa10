package handler

import (
	"context"
	"log/slog"

	formsdomain "github.com/ankit723/Dream-Definers/internal/forms/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
	"github.com/ankit723/Dream-Definers/internal/mailq/processor"
	"github.com/ankit723/Dream-Definers/internal/mailq/storage"
)

// QueueStore is the email queue surface the handlers need.
type QueueStore interface {
	Enqueue(ctx context.Context, p storage.EnqueueParams) (*domain.EmailJob, error)
	GetByID(ctx context.Context, jobID string) (*domain.EmailJob, error)
	ResetForRetry(ctx context.Context, jobID string) error
	CountByStatus(ctx context.Context) (domain.QueueStats, error)
	ListDue(ctx context.Context, limit int) ([]domain.EmailJob, error)
	ListPaged(ctx context.Context, filter storage.ListFilter, page, pageSize int) ([]domain.EmailJob, int, error)
}

// FormStore persists form submissions and subscribers.
type FormStore interface {
	CreateContact(ctx context.Context, c *formsdomain.ContactSubmission) error
	CreateConsultancy(ctx context.Context, c *formsdomain.ConsultancyRequest) error
	Subscribe(ctx context.Context, email string, name *string) (reactivated bool, err error)
	Unsubscribe(ctx context.Context, email string) error
	ListActiveSubscribers(ctx context.Context) ([]formsdomain.Subscriber, error)
}

// QueueProcessor runs one delivery pass.
type QueueProcessor interface {
	ProcessQueue(ctx context.Context) (processor.Result, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Queue        QueueStore
	Forms        FormStore
	Processor    QueueProcessor
	HealthCheck  func(ctx context.Context) error
	AdminAddress string
	CronSecret   string
	MaxRetries   int
}
