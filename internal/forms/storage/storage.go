package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ankit723/Dream-Definers/internal/forms/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Storage persists form submissions and newsletter subscribers.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// CreateContact stores one contact-form submission.
func (s *Storage) CreateContact(ctx context.Context, c *domain.ContactSubmission) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()

	query := `
		INSERT INTO contact_submissions (id, name, email, phone, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	return nil
}

// CreateConsultancy stores one free-consultancy request.
func (s *Storage) CreateConsultancy(ctx context.Context, c *domain.ConsultancyRequest) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()

	query := `
		INSERT INTO consultancy_requests (id, name, email, phone, program, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Program, c.Message, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create consultancy request: %w", err)
	}

	return nil
}

// Subscribe creates a subscriber or reactivates an inactive one. An already
// active subscription returns ErrAlreadySubscribed. The reactivated result
// lets the caller phrase its response.
func (s *Storage) Subscribe(ctx context.Context, email string, name *string) (reactivated bool, err error) {
	var existing domain.Subscriber
	err = s.db.GetContext(ctx, &existing,
		`SELECT id, email, name, active, created_at FROM newsletter_subscribers WHERE email = $1`, email)

	switch {
	case err == nil:
		if existing.Active {
			return false, domain.ErrAlreadySubscribed
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE newsletter_subscribers SET active = TRUE, updated_at = NOW() WHERE email = $1`, email)
		if err != nil {
			return false, fmt.Errorf("failed to reactivate subscriber: %w", err)
		}
		return true, nil

	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO newsletter_subscribers (id, email, name, active, created_at, updated_at)
			 VALUES ($1, $2, $3, TRUE, NOW(), NOW())`,
			uuid.New().String(), email, name)
		if err != nil {
			// A concurrent subscribe can win the insert between the
			// lookup and here; the loser sees the unique constraint.
			if isUniqueViolation(err) {
				return false, domain.ErrAlreadySubscribed
			}
			return false, fmt.Errorf("failed to create subscriber: %w", err)
		}
		s.logger.Info("Newsletter subscriber added",
			slog.String("email", email),
		)
		return false, nil

	default:
		return false, fmt.Errorf("failed to look up subscriber: %w", err)
	}
}

// Unsubscribe deactivates a subscription, keeping the row.
func (s *Storage) Unsubscribe(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE newsletter_subscribers SET active = FALSE, updated_at = NOW() WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSubscriberNotFound
	}

	return nil
}

// ListActiveSubscribers returns every subscriber eligible for blog
// notifications, oldest first.
func (s *Storage) ListActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	var subscribers []domain.Subscriber
	err := s.db.SelectContext(ctx, &subscribers,
		`SELECT id, email, name, active, created_at
		 FROM newsletter_subscribers
		 WHERE active = TRUE
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscribers: %w", err)
	}

	return subscribers, nil
}
