package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/store"
)

const preferencesColumns = `id, user_id, email, due_date_reminder, follow_up_reminder,
	daily_summary, weekly_summary, weekend_notifications, due_date_reminder_lead,
	daily_summary_time, weekly_summary_time, weekly_summary_day, min_priority,
	created_at, updated_at`

// PreferencesStore implements the store.PreferencesStore interface using
// PostgreSQL.
type PreferencesStore struct {
	db store.DBTX
}

// NewPreferencesStore creates a new PostgreSQL implementation of the
// PreferencesStore interface.
func NewPreferencesStore(db store.DBTX) *PreferencesStore {
	return &PreferencesStore{db: db}
}

// Ensure PreferencesStore implements store.PreferencesStore interface
var _ store.PreferencesStore = (*PreferencesStore)(nil)

// GetByUser implements store.PreferencesStore.GetByUser
func (s *PreferencesStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	query := `SELECT ` + preferencesColumns + ` FROM notification_preferences WHERE user_id = $1`

	prefs, err := scanPreferences(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrPreferencesNotFound
		}
		return nil, MapError(err)
	}

	return prefs, nil
}

// Save implements store.PreferencesStore.Save. It looks the record up by user
// first so an existing row keeps its ID; only when no record exists does it
// insert one under the ID carried by prefs.
func (s *PreferencesStore) Save(ctx context.Context, prefs *domain.NotificationPreferences) error {
	log := logger.FromContext(ctx)

	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	existing, err := s.GetByUser(ctx, prefs.UserID)
	if err != nil && err != store.ErrPreferencesNotFound {
		return err
	}

	if existing != nil {
		prefs.ID = existing.ID
		prefs.CreatedAt = existing.CreatedAt
		return s.update(ctx, prefs)
	}

	query := `
		INSERT INTO notification_preferences (` + preferencesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = s.db.ExecContext(ctx, query,
		prefs.ID,
		prefs.UserID,
		prefs.Email,
		prefs.DueDateReminder,
		prefs.FollowUpReminder,
		prefs.DailySummary,
		prefs.WeeklySummary,
		prefs.WeekendNotifications,
		prefs.DueDateReminderLead,
		prefs.DailySummaryTime,
		prefs.WeeklySummaryTime,
		prefs.WeeklySummaryDay,
		prefs.MinPriority,
		prefs.CreatedAt,
		prefs.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert notification preferences", "error", err, "user_id", prefs.UserID)
		return MapError(err)
	}

	return nil
}

func (s *PreferencesStore) update(ctx context.Context, prefs *domain.NotificationPreferences) error {
	query := `
		UPDATE notification_preferences
		SET email = $1, due_date_reminder = $2, follow_up_reminder = $3,
			daily_summary = $4, weekly_summary = $5, weekend_notifications = $6,
			due_date_reminder_lead = $7, daily_summary_time = $8,
			weekly_summary_time = $9, weekly_summary_day = $10,
			min_priority = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := s.db.ExecContext(ctx, query,
		prefs.Email,
		prefs.DueDateReminder,
		prefs.FollowUpReminder,
		prefs.DailySummary,
		prefs.WeeklySummary,
		prefs.WeekendNotifications,
		prefs.DueDateReminderLead,
		prefs.DailySummaryTime,
		prefs.WeeklySummaryTime,
		prefs.WeeklySummaryDay,
		prefs.MinPriority,
		prefs.UpdatedAt,
		prefs.ID,
	)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrPreferencesNotFound
	}

	return nil
}

// ListAll implements store.PreferencesStore.ListAll
func (s *PreferencesStore) ListAll(ctx context.Context) ([]*domain.NotificationPreferences, error) {
	query := `SELECT ` + preferencesColumns + ` FROM notification_preferences ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var all []*domain.NotificationPreferences
	for rows.Next() {
		var prefs domain.NotificationPreferences
		if err := scanPreferencesRow(rows, &prefs); err != nil {
			return nil, fmt.Errorf("failed to scan preferences row: %w", err)
		}
		all = append(all, &prefs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences rows: %w", err)
	}

	return all, nil
}

// Delete implements store.PreferencesStore.Delete
func (s *PreferencesStore) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notification_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrPreferencesNotFound
	}

	return nil
}

// WithTx implements store.PreferencesStore.WithTx
func (s *PreferencesStore) WithTx(tx *sql.Tx) store.PreferencesStore {
	return &PreferencesStore{db: tx}
}

func scanPreferences(row *sql.Row) (*domain.NotificationPreferences, error) {
	var prefs domain.NotificationPreferences
	err := row.Scan(
		&prefs.ID,
		&prefs.UserID,
		&prefs.Email,
		&prefs.DueDateReminder,
		&prefs.FollowUpReminder,
		&prefs.DailySummary,
		&prefs.WeeklySummary,
		&prefs.WeekendNotifications,
		&prefs.DueDateReminderLead,
		&prefs.DailySummaryTime,
		&prefs.WeeklySummaryTime,
		&prefs.WeeklySummaryDay,
		&prefs.MinPriority,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func scanPreferencesRow(rows *sql.Rows, prefs *domain.NotificationPreferences) error {
	return rows.Scan(
		&prefs.ID,
		&prefs.UserID,
		&prefs.Email,
		&prefs.DueDateReminder,
		&prefs.FollowUpReminder,
		&prefs.DailySummary,
		&prefs.WeeklySummary,
		&prefs.WeekendNotifications,
		&prefs.DueDateReminderLead,
		&prefs.DailySummaryTime,
		&prefs.WeeklySummaryTime,
		&prefs.WeeklySummaryDay,
		&prefs.MinPriority,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
}
