package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/jobs"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/service/auth"
	"github.com/listoapp/listo-api/internal/store"
)

// resetTokenTTL is how long a reset link stays usable.
const resetTokenTTL = time.Hour

// PasswordResetService implements the forgot-password flow. Requests never
// reveal whether an account exists; only the token hash is persisted.
type PasswordResetService interface {
	// RequestReset generates and mails a reset token when the email belongs
	// to an account. Always returns nil for unknown emails.
	RequestReset(ctx context.Context, email string) error

	// ConfirmReset consumes a valid token and sets the new password.
	// Returns ErrResetTokenInvalid for unknown, consumed or expired tokens.
	ConfirmReset(ctx context.Context, token, newPassword string) error
}

// PasswordResetServiceImpl implements the PasswordResetService interface.
type PasswordResetServiceImpl struct {
	userStore  store.UserStore
	tokenStore store.PasswordResetStore
	hasher     auth.PasswordHasher
	queue      jobs.QueueWriter
	mailer     mail.Mailer
	db         *sql.DB
	logger     *slog.Logger

	timeFunc func() time.Time
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	userStore store.UserStore,
	tokenStore store.PasswordResetStore,
	hasher auth.PasswordHasher,
	queue jobs.QueueWriter,
	mailer mail.Mailer,
	db *sql.DB,
	logger *slog.Logger,
) *PasswordResetServiceImpl {
	return &PasswordResetServiceImpl{
		userStore:  userStore,
		tokenStore: tokenStore,
		hasher:     hasher,
		queue:      queue,
		mailer:     mailer,
		db:         db,
		logger:     logger.With("component", "password_reset_service"),
		timeFunc:   time.Now,
	}
}

// WithTimeFunc overrides the clock. Test hook.
func (s *PasswordResetServiceImpl) WithTimeFunc(fn func() time.Time) *PasswordResetServiceImpl {
	s.timeFunc = fn
	return s
}

// RequestReset issues a token for an existing account. The caller cannot
// distinguish the unknown-email path from the success path.
func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	plaintext, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := s.timeFunc().UTC()
	record := &store.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashResetToken(plaintext),
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}

	if err := s.tokenStore.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.queue.Enqueue(jobs.NewPasswordResetEmailJob(user.Email, plaintext, s.mailer)); err != nil {
		s.logger.Error("failed to enqueue password reset email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to enqueue reset email: %w", err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

// ConfirmReset validates the token, replaces the password and deletes the
// token, all inside one transaction.
func (s *PasswordResetServiceImpl) ConfirmReset(ctx context.Context, token, newPassword string) error {
	record, err := s.tokenStore.GetByHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, store.ErrResetTokenNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if s.timeFunc().After(record.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	user, err := s.userStore.GetByID(ctx, record.UserID)
	if err != nil {
		return fmt.Errorf("failed to load account for reset: %w", err)
	}

	user.Password = newPassword
	if err := user.Validate(); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	user.UpdatedAt = s.timeFunc().UTC()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.tokenStore.WithTx(tx).Delete(ctx, record.ID)
	})
	if err != nil {
		return err
	}

	job := jobs.NewSimpleEmailJob(
		user.Email,
		"Tu contraseña ha sido actualizada",
		"Hola "+user.Username+",\n\nTu contraseña de Listo se ha cambiado correctamente. Si no fuiste tú, contacta con soporte inmediatamente.\n",
		s.mailer,
	)
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue password change confirmation", "error", err, "user_id", user.ID)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}

// generateResetToken returns 32 random bytes hex encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
