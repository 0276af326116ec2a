package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/logger"
)

// SMTPMailer implements Mailer over a plain SMTP transport.
type SMTPMailer struct {
	cfg  config.MailConfig
	auth smtp.Auth
}

// Ensure SMTPMailer implements the Mailer interface
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new SMTP-backed mailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}
	return &SMTPMailer{cfg: cfg, auth: auth}
}

// SendSimpleEmail sends a plain text email.
func (m *SMTPMailer) SendSimpleEmail(ctx context.Context, to, subject, body string) error {
	msg := m.buildTextMessage(to, subject, body)
	return m.send(ctx, to, msg)
}

// SendTaskReminderEmail sends an HTML digest listing the given tasks.
func (m *SMTPMailer) SendTaskReminderEmail(
	ctx context.Context,
	to, subject string,
	tasks []*domain.Task,
	user *domain.User,
) error {
	html, err := buildDigestBody(subject, tasks, user)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Tienes %d tarea(s) pendiente(s). Abre %s para verlas.", len(tasks), m.cfg.FrontendURL)
	msg := m.buildMIMEMessage(to, subject, text, html)
	return m.send(ctx, to, msg)
}

// SendPasswordResetEmail sends the password reset link carrying the token.
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	html, err := buildResetBody(m.cfg.FrontendURL, token, m.cfg.FromName)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Restablece tu contraseña en %s/reset-password?token=%s (caduca en 1 hora).",
		m.cfg.FrontendURL, token)
	msg := m.buildMIMEMessage(to, "Restablecimiento de Contraseña - "+m.cfg.FromName, text, html)
	return m.send(ctx, to, msg)
}

// SendWelcomeEmail greets a freshly registered user.
func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nTu cuenta en %s está lista. Empieza a organizar tus tareas en %s.\n\nSaludos,\nEl equipo de %s\n",
		user.Username, m.cfg.FromName, m.cfg.FrontendURL, m.cfg.FromName)
	return m.SendSimpleEmail(ctx, user.Email, "Bienvenido a "+m.cfg.FromName, body)
}

// send delivers the raw message to a single recipient.
func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	log := logger.FromContext(ctx)
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	if err := smtp.SendMail(addr, m.auth, m.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	log.Debug("email sent", "to", to)
	return nil
}

// buildTextMessage builds a plain text email message.
func (m *SMTPMailer) buildTextMessage(to, subject, body string) []byte {
	message := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		m.cfg.FromName, m.cfg.FromEmail, to, subject, body)
	return []byte(message)
}

// buildMIMEMessage builds a multipart/alternative message with both text
// and HTML parts.
func (m *SMTPMailer) buildMIMEMessage(to, subject, textBody, htmlBody string) []byte {
	boundary := generateBoundary()
	message := fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s--
`, m.cfg.FromName, m.cfg.FromEmail, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	return []byte(message)
}

// generateBoundary generates a random boundary for MIME messages.
func generateBoundary() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
