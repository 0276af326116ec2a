package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/store"
)

const reminderColumns = "id, task_id, reminder_time, reminder_type, sent, created_at"

// TaskReminderStore implements the store.TaskReminderStore interface using
// PostgreSQL.
type TaskReminderStore struct {
	db store.DBTX
}

// NewTaskReminderStore creates a new PostgreSQL implementation of the
// TaskReminderStore interface.
func NewTaskReminderStore(db store.DBTX) *TaskReminderStore {
	return &TaskReminderStore{db: db}
}

// Ensure TaskReminderStore implements store.TaskReminderStore interface
var _ store.TaskReminderStore = (*TaskReminderStore)(nil)

// Create implements store.TaskReminderStore.Create
func (s *TaskReminderStore) Create(ctx context.Context, reminder *domain.TaskReminder) error {
	log := logger.FromContext(ctx)

	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_reminders (id, task_id, reminder_time, reminder_type, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.TaskID,
		reminder.ReminderTime,
		reminder.ReminderType,
		reminder.Sent,
		reminder.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create task reminder", "error", err, "reminder_id", reminder.ID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskReminderStore.GetByID
func (s *TaskReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM task_reminders WHERE id = $1`

	reminder, err := scanReminder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrReminderNotFound
		}
		return nil, MapError(err)
	}

	return reminder, nil
}

// ListPendingByTask implements store.TaskReminderStore.ListPendingByTask
func (s *TaskReminderStore) ListPendingByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM task_reminders
		WHERE task_id = $1 AND sent = FALSE
		ORDER BY reminder_time ASC
	`

	return s.queryReminders(ctx, query, taskID)
}

// ListDue implements store.TaskReminderStore.ListDue. It returns all unsent
// reminders whose reminder time is at or before the given instant.
func (s *TaskReminderStore) ListDue(ctx context.Context, now time.Time) ([]*domain.TaskReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM task_reminders
		WHERE sent = FALSE AND reminder_time <= $1
		ORDER BY reminder_time ASC
	`

	return s.queryReminders(ctx, query, now)
}

// MarkSent implements store.TaskReminderStore.MarkSent. The update is
// conditional on the reminder still being unsent, so exactly one caller
// observes the false-to-true transition.
func (s *TaskReminderStore) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE task_reminders SET sent = TRUE WHERE id = $1 AND sent = FALSE`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// Delete implements store.TaskReminderStore.Delete
func (s *TaskReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM task_reminders WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrReminderNotFound
	}

	return nil
}

// DeleteSentBefore implements store.TaskReminderStore.DeleteSentBefore. It
// removes sent reminders created before the cutoff and reports how many
// rows were purged.
func (s *TaskReminderStore) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM task_reminders WHERE sent = TRUE AND reminder_time < $1`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// WithTx implements store.TaskReminderStore.WithTx
func (s *TaskReminderStore) WithTx(tx *sql.Tx) store.TaskReminderStore {
	return &TaskReminderStore{db: tx}
}

func (s *TaskReminderStore) queryReminders(ctx context.Context, query string, args ...interface{}) ([]*domain.TaskReminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var reminders []*domain.TaskReminder
	for rows.Next() {
		var reminder domain.TaskReminder
		if err := rows.Scan(
			&reminder.ID,
			&reminder.TaskID,
			&reminder.ReminderTime,
			&reminder.ReminderType,
			&reminder.Sent,
			&reminder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task reminder row: %w", err)
		}
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task reminder rows: %w", err)
	}

	return reminders, nil
}

func scanReminder(row *sql.Row) (*domain.TaskReminder, error) {
	var reminder domain.TaskReminder
	err := row.Scan(
		&reminder.ID,
		&reminder.TaskID,
		&reminder.ReminderTime,
		&reminder.ReminderType,
		&reminder.Sent,
		&reminder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}
