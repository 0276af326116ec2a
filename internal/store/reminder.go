package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
)

// TaskReminderStore defines the interface for task reminder persistence.
type TaskReminderStore interface {
	// Create saves a new pending reminder to the store.
	Create(ctx context.Context, reminder *domain.TaskReminder) error

	// GetByID retrieves a reminder by its unique ID.
	// Returns ErrReminderNotFound if the reminder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskReminder, error)

	// ListPendingByTask retrieves the unsent reminders for a task, soonest
	// first.
	ListPendingByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskReminder, error)

	// ListDue retrieves every unsent reminder whose reminder time is at or
	// before the given instant, across all tasks and users.
	ListDue(ctx context.Context, at time.Time) ([]*domain.TaskReminder, error)

	// MarkSent flips the reminder's sent flag, but only if it is still
	// unsent. Returns true when this call performed the transition, false
	// when another tick got there first. This conditional update is what
	// keeps concurrent dispatchers from double-sending.
	MarkSent(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes a reminder by its ID, unconditionally.
	// Returns ErrReminderNotFound if the reminder does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteSentBefore purges sent reminders created before the cutoff and
	// returns how many rows were removed. Used by the maintenance job.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new TaskReminderStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskReminderStore
}
