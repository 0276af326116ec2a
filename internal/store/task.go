package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
)

// TaskFilter narrows ListByUser results. Nil fields are ignored.
type TaskFilter struct {
	Completed *bool
	Priority  *int
	ListID    *uuid.UUID
	// Search matches title or description, case-insensitively.
	Search string
	// DueFrom/DueTo bound the due date range, inclusive. Either side may
	// be nil.
	DueFrom *time.Time
	DueTo   *time.Time
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves all tasks assigned to the given user, newest
	// first, optionally narrowed by the filter.
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// ListDueBetween retrieves the user's incomplete tasks whose due date
	// falls in [from, to] inclusive. This is the date-windowed query the
	// reminder engine is built on.
	ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Task, error)

	// ListOverdue retrieves the user's incomplete tasks whose due date is
	// strictly before the given instant.
	ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Task, error)

	// Update modifies an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID, cascading to its reminders.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
