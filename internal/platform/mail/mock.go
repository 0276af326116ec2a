package mail

import (
	"context"
	"sync"
	"time"

	"github.com/listoapp/listo-api/internal/domain"
)

// SentEmail records one email delivered through the MockMailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
	Tasks   []*domain.Task
	SentAt  time.Time
}

// MockMailer implements Mailer for testing. It records every send and can
// be configured to fail, which is how the dispatcher retry paths are
// exercised.
type MockMailer struct {
	mu sync.Mutex

	// Err, when non-nil, is returned by every send operation.
	Err error

	sent []SentEmail
}

// Ensure MockMailer implements the Mailer interface
var _ Mailer = (*MockMailer)(nil)

// NewMockMailer creates a new recording mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendSimpleEmail mock implementation.
func (m *MockMailer) SendSimpleEmail(ctx context.Context, to, subject, body string) error {
	return m.record(SentEmail{To: to, Subject: subject, Body: body})
}

// SendTaskReminderEmail mock implementation.
func (m *MockMailer) SendTaskReminderEmail(
	ctx context.Context,
	to, subject string,
	tasks []*domain.Task,
	user *domain.User,
) error {
	return m.record(SentEmail{To: to, Subject: subject, Tasks: tasks})
}

// SendPasswordResetEmail mock implementation.
func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	return m.record(SentEmail{To: to, Subject: "password_reset", Body: token})
}

// SendWelcomeEmail mock implementation.
func (m *MockMailer) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	return m.record(SentEmail{To: user.Email, Subject: "welcome"})
}

func (m *MockMailer) record(email SentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	email.SentAt = time.Now()
	m.sent = append(m.sent, email)
	return nil
}

// SentEmails returns a copy of all recorded emails.
func (m *MockMailer) SentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastSentEmail returns the most recently recorded email, or nil.
func (m *MockMailer) LastSentEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	email := m.sent[len(m.sent)-1]
	return &email
}

// Clear drops all recorded emails.
func (m *MockMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
