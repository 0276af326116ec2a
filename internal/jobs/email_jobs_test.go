package jobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/mail"
)

func TestWelcomeEmailJob(t *testing.T) {
	mailer := mail.NewMockMailer()
	user := &domain.User{ID: uuid.New(), Username: "newcomer", Email: "new@example.com"}

	job := NewWelcomeEmailJob(user, mailer)
	assert.Equal(t, "welcome_email", job.Type())
	assert.NotEqual(t, uuid.Nil, job.ID())

	require.NoError(t, job.Execute(context.Background()))

	last := mailer.LastSentEmail()
	require.NotNil(t, last)
	assert.Equal(t, user.Email, last.To)
}

func TestPasswordResetEmailJob(t *testing.T) {
	mailer := mail.NewMockMailer()

	job := NewPasswordResetEmailJob("someone@example.com", "token-123", mailer)
	assert.Equal(t, "password_reset_email", job.Type())

	require.NoError(t, job.Execute(context.Background()))

	last := mailer.LastSentEmail()
	require.NotNil(t, last)
	assert.Equal(t, "someone@example.com", last.To)
	assert.Equal(t, "token-123", last.Body)
}

func TestSimpleEmailJob(t *testing.T) {
	mailer := mail.NewMockMailer()

	job := NewSimpleEmailJob("someone@example.com", "Aviso", "cuerpo", mailer)
	assert.Equal(t, "simple_email", job.Type())

	require.NoError(t, job.Execute(context.Background()))

	last := mailer.LastSentEmail()
	require.NotNil(t, last)
	assert.Equal(t, "Aviso", last.Subject)
	assert.Equal(t, "cuerpo", last.Body)
}
