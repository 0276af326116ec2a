package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/mail"
)

// WelcomeEmailJob sends the greeting mail after registration.
type WelcomeEmailJob struct {
	id     uuid.UUID
	user   *domain.User
	mailer mail.Mailer
}

// NewWelcomeEmailJob creates a job that greets the given user.
func NewWelcomeEmailJob(user *domain.User, mailer mail.Mailer) *WelcomeEmailJob {
	return &WelcomeEmailJob{
		id:     uuid.New(),
		user:   user,
		mailer: mailer,
	}
}

func (j *WelcomeEmailJob) ID() uuid.UUID { return j.id }

func (j *WelcomeEmailJob) Type() string { return "welcome_email" }

func (j *WelcomeEmailJob) Execute(ctx context.Context) error {
	return j.mailer.SendWelcomeEmail(ctx, j.user)
}

// PasswordResetEmailJob sends the reset link carrying the plaintext token.
type PasswordResetEmailJob struct {
	id     uuid.UUID
	to     string
	token  string
	mailer mail.Mailer
}

// NewPasswordResetEmailJob creates a job that mails a reset token.
func NewPasswordResetEmailJob(to, token string, mailer mail.Mailer) *PasswordResetEmailJob {
	return &PasswordResetEmailJob{
		id:     uuid.New(),
		to:     to,
		token:  token,
		mailer: mailer,
	}
}

func (j *PasswordResetEmailJob) ID() uuid.UUID { return j.id }

func (j *PasswordResetEmailJob) Type() string { return "password_reset_email" }

func (j *PasswordResetEmailJob) Execute(ctx context.Context) error {
	return j.mailer.SendPasswordResetEmail(ctx, j.to, j.token)
}

// SimpleEmailJob sends an arbitrary plain text mail, used for the password
// change confirmation.
type SimpleEmailJob struct {
	id      uuid.UUID
	to      string
	subject string
	body    string
	mailer  mail.Mailer
}

// NewSimpleEmailJob creates a job that sends one plain text email.
func NewSimpleEmailJob(to, subject, body string, mailer mail.Mailer) *SimpleEmailJob {
	return &SimpleEmailJob{
		id:      uuid.New(),
		to:      to,
		subject: subject,
		body:    body,
		mailer:  mailer,
	}
}

func (j *SimpleEmailJob) ID() uuid.UUID { return j.id }

func (j *SimpleEmailJob) Type() string { return "simple_email" }

func (j *SimpleEmailJob) Execute(ctx context.Context) error {
	return j.mailer.SendSimpleEmail(ctx, j.to, j.subject, j.body)
}
