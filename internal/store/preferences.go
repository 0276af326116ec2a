package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
)

// PreferencesStore defines the interface for notification preferences
// persistence. One record exists per user; Save upserts on the user ID so
// a second save never produces a duplicate row.
type PreferencesStore interface {
	// GetByUser retrieves the preferences record for the given user.
	// Returns ErrPreferencesNotFound if the user never saved preferences.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)

	// Save upserts the preferences record for prefs.UserID. On insert the
	// record keeps the ID carried by prefs; on update the existing row's ID
	// is preserved and written back into prefs.
	Save(ctx context.Context, prefs *domain.NotificationPreferences) error

	// ListAll retrieves every preferences record. The global reminder
	// evaluator reads the full table each tick.
	ListAll(ctx context.Context) ([]*domain.NotificationPreferences, error)

	// Delete removes the preferences record for the given user.
	// Returns ErrPreferencesNotFound if no record exists.
	Delete(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new PreferencesStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PreferencesStore
}
