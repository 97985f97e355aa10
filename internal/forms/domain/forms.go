package domain

import (
	"errors"
	"time"
)

var (
	// ErrAlreadySubscribed is returned when an active subscriber signs up again.
	ErrAlreadySubscribed = errors.New("email is already subscribed")

	// ErrSubscriberNotFound is returned when unsubscribing an unknown email.
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// ContactSubmission is one captured contact-form entry.
type ContactSubmission struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConsultancyRequest is one captured free-consultancy request.
type ConsultancyRequest struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Program   string    `db:"program" json:"program"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subscriber is one newsletter subscription. Inactive rows keep their email
// reserved so re-subscribing reactivates instead of duplicating.
type Subscriber struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
