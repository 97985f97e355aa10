package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is one outbound email, fully rendered.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender is the mail-sending capability the queue processor delivers
// through. Implementations must return a non-nil error on any delivery
// failure so the processor can schedule a retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
}

// NewSMTPSender creates an SMTP-backed Sender.
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
	}
}

// Send dials the SMTP server and delivers one message. The attempt is
// bounded by ctx; a hung server surfaces as the context error instead of
// blocking the processing pass.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
