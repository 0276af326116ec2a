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

const taskColumns = `id, user_id, list_id, title, description, completed, priority, due_date, created_at, updated_at`

// TaskStore implements the store.TaskStore interface using PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.ListID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task", "error", err, "task_id", task.ID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *TaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.ListID != nil {
		args = append(args, *filter.ListID)
		query += fmt.Sprintf(" AND list_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		query += fmt.Sprintf(" AND due_date >= $%d", len(args))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		query += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	return s.queryTasks(ctx, query, args...)
}

// ListDueBetween implements store.TaskStore.ListDueBetween
func (s *TaskStore) ListDueBetween(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND completed = FALSE
		  AND due_date IS NOT NULL
		  AND due_date >= $2
		  AND due_date <= $3
		ORDER BY due_date ASC
	`
	return s.queryTasks(ctx, query, userID, from, to)
}

// ListOverdue implements store.TaskStore.ListOverdue
func (s *TaskStore) ListOverdue(
	ctx context.Context,
	userID uuid.UUID,
	before time.Time,
) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND completed = FALSE
		  AND due_date IS NOT NULL
		  AND due_date < $2
		ORDER BY due_date ASC
	`
	return s.queryTasks(ctx, query, userID, before)
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET list_id = $1, title = $2, description = $3, completed = $4,
		    priority = $5, due_date = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		task.ListID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete. Reminders referencing the task
// are removed by the ON DELETE CASCADE on task_reminders.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

func (s *TaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.ListID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// scanTask reads a single task row.
func scanTask(row *sql.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.ListID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	return &task, nil
}
