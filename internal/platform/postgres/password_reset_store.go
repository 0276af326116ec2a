package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/store"
)

// PasswordResetStore implements the store.PasswordResetStore interface using
// PostgreSQL.
type PasswordResetStore struct {
	db store.DBTX
}

// NewPasswordResetStore creates a new PostgreSQL implementation of the
// PasswordResetStore interface.
func NewPasswordResetStore(db store.DBTX) *PasswordResetStore {
	return &PasswordResetStore{db: db}
}

// Ensure PasswordResetStore implements store.PasswordResetStore interface
var _ store.PasswordResetStore = (*PasswordResetStore)(nil)

// Create implements store.PasswordResetStore.Create. Any previous token for
// the same user is removed first so at most one reset is outstanding.
func (s *PasswordResetStore) Create(ctx context.Context, token *store.PasswordResetToken) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, token.UserID); err != nil {
		return MapError(err)
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByHash implements store.PasswordResetStore.GetByHash
func (s *PasswordResetStore) GetByHash(ctx context.Context, tokenHash string) (*store.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`

	var token store.PasswordResetToken
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrResetTokenNotFound
		}
		return nil, MapError(err)
	}

	return &token, nil
}

// Delete implements store.PasswordResetStore.Delete
func (s *PasswordResetStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrResetTokenNotFound
	}

	return nil
}

// DeleteExpired implements store.PasswordResetStore.DeleteExpired
func (s *PasswordResetStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// WithTx implements store.PasswordResetStore.WithTx
func (s *PasswordResetStore) WithTx(tx *sql.Tx) store.PasswordResetStore {
	return &PasswordResetStore{db: tx}
}
