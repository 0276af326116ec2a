package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/listoapp/listo-api/internal/domain"
)

// TaskListStore defines the interface for task list data persistence.
type TaskListStore interface {
	// Create saves a new task list to the store.
	Create(ctx context.Context, list *domain.TaskList) error

	// GetByID retrieves a task list by its unique ID.
	// Returns ErrListNotFound if the list does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error)

	// ListByUser retrieves all task lists owned by the given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskList, error)

	// Update modifies an existing task list.
	// Returns ErrListNotFound if the list does not exist.
	Update(ctx context.Context, list *domain.TaskList) error

	// Delete removes a task list by its ID. Tasks referencing the list are
	// detached, not deleted.
	// Returns ErrListNotFound if the list does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskListStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskListStore
}
