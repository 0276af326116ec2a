package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is the persisted form of a password reset request.
// Only the SHA-256 hash of the token is stored; the plaintext token lives
// exclusively in the reset email.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetStore defines the interface for password reset token
// persistence.
type PasswordResetStore interface {
	// Create saves a new reset token, replacing any previous token for the
	// same user.
	Create(ctx context.Context, token *PasswordResetToken) error

	// GetByHash retrieves a token by its hash.
	// Returns ErrResetTokenNotFound if no such token exists.
	GetByHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)

	// Delete removes a token by its ID. Called once the token is consumed.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired purges tokens whose expiry is before the given instant
	// and returns how many rows were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// WithTx returns a new PasswordResetStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PasswordResetStore
}
