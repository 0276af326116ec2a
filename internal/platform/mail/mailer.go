// Package mail implements the outbound email transport: simple text mails,
// HTML task reminder digests, and the account lifecycle mails (welcome,
// password reset). The SMTP implementation builds multipart MIME messages;
// a recording mock is provided for tests.
package mail

import (
	"context"

	"github.com/listoapp/listo-api/internal/domain"
)

// Mailer defines the outbound email operations the application consumes.
// Implementations are synchronous; send errors propagate to the caller,
// who decides whether to retry (the task reminder dispatcher) or just log
// (the global reminder evaluator).
type Mailer interface {
	// SendSimpleEmail sends a plain text email.
	SendSimpleEmail(ctx context.Context, to, subject, body string) error

	// SendTaskReminderEmail sends an HTML digest listing the given tasks.
	// Due dates are formatted in the user's timezone.
	SendTaskReminderEmail(ctx context.Context, to, subject string, tasks []*domain.Task, user *domain.User) error

	// SendPasswordResetEmail sends the password reset link carrying the
	// plaintext token.
	SendPasswordResetEmail(ctx context.Context, to, token string) error

	// SendWelcomeEmail greets a freshly registered user.
	SendWelcomeEmail(ctx context.Context, user *domain.User) error
}
