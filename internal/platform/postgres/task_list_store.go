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

// TaskListStore implements the store.TaskListStore interface using PostgreSQL.
type TaskListStore struct {
	db store.DBTX
}

// NewTaskListStore creates a new PostgreSQL implementation of the
// TaskListStore interface.
func NewTaskListStore(db store.DBTX) *TaskListStore {
	return &TaskListStore{db: db}
}

// Ensure TaskListStore implements store.TaskListStore interface
var _ store.TaskListStore = (*TaskListStore)(nil)

// Create implements store.TaskListStore.Create
func (s *TaskListStore) Create(ctx context.Context, list *domain.TaskList) error {
	log := logger.FromContext(ctx)

	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_lists (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		list.ID,
		list.UserID,
		list.Name,
		list.Description,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task list", "error", err, "list_id", list.ID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskListStore.GetByID
func (s *TaskListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM task_lists
		WHERE id = $1
	`

	var list domain.TaskList
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.Description,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrListNotFound
		}
		return nil, MapError(err)
	}

	return &list, nil
}

// ListByUser implements store.TaskListStore.ListByUser
func (s *TaskListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskList, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM task_lists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var lists []*domain.TaskList
	for rows.Next() {
		var list domain.TaskList
		if err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.Description,
			&list.CreatedAt,
			&list.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task list row: %w", err)
		}
		lists = append(lists, &list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task list rows: %w", err)
	}

	return lists, nil
}

// Update implements store.TaskListStore.Update
func (s *TaskListStore) Update(ctx context.Context, list *domain.TaskList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE task_lists
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		list.Name,
		list.Description,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrListNotFound
	}

	return nil
}

// Delete implements store.TaskListStore.Delete. Tasks referencing the list
// have their list_id nulled out by the ON DELETE SET NULL constraint.
func (s *TaskListStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM task_lists WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrListNotFound
	}

	return nil
}

// WithTx implements store.TaskListStore.WithTx
func (s *TaskListStore) WithTx(tx *sql.Tx) store.TaskListStore {
	return &TaskListStore{db: tx}
}
