// Package mailer dispatches notification emails off the request path.
// Handlers enqueue; the mail-worker binary consumes and delivers. Every
// implementation is best-effort: a failed enqueue is logged, never surfaced.
package mailer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Email is one outbound message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer enqueues emails for asynchronous delivery.
type Mailer interface {
	Enqueue(ctx context.Context, e Email) error
}

// LogMailer logs instead of sending. Used when no queue is configured,
// mirroring the development behavior of the notification service.
type LogMailer struct{}

// Enqueue logs the email and reports success.
func (LogMailer) Enqueue(ctx context.Context, e Email) error {
	logrus.WithFields(logrus.Fields{
		"to":      e.To,
		"subject": e.Subject,
	}).Info("mock email")
	return nil
}

// Memory captures enqueued emails. Used in tests.
type Memory struct {
	mu     sync.Mutex
	emails []Email
}

// Enqueue records the email.
func (m *Memory) Enqueue(ctx context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, e)
	return nil
}

// Sent returns a copy of everything enqueued so far.
func (m *Memory) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.emails))
	copy(out, m.emails)
	return out
}
