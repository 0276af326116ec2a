package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/store"
)

// TaskUpdate carries the mutable task fields for an update. Nil pointers
// leave the current value untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
	DueDate     *time.Time
	ClearDue    bool
	ListID      *uuid.UUID
	ClearList   bool
}

// TaskService provides task operations scoped to the requesting user. Every
// read and write verifies ownership; a task belonging to someone else is
// indistinguishable from a missing one.
type TaskService interface {
	// CreateTask creates a task owned by userID, optionally inside a list.
	CreateTask(ctx context.Context, userID uuid.UUID, title, description string, priority int, dueDate *time.Time, listID *uuid.UUID) (*domain.Task, error)

	// GetTask retrieves one of the user's tasks.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves the user's tasks, newest first, narrowed by the
	// filter.
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// UpdateTask applies the given changes to one of the user's tasks.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks and its reminders.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	listStore store.TaskListStore
	cache     cache.Cache
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, listStore store.TaskListStore, c cache.Cache, logger *slog.Logger) TaskService {
	return &TaskServiceImpl{
		taskStore: taskStore,
		listStore: listStore,
		cache:     c,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask creates a task. When a list is given it must exist and belong
// to the same user.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, title, description string, priority int, dueDate *time.Time, listID *uuid.UUID) (*domain.Task, error) {
	if listID != nil {
		if err := s.checkListOwnership(ctx, userID, *listID); err != nil {
			return nil, err
		}
	}

	task, err := domain.NewTask(userID, title, description, priority, dueDate)
	if err != nil {
		return nil, err
	}
	task.ListID = listID

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.logger.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// GetTask retrieves a task, hiding other users' tasks behind ErrTaskNotFound.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListTasks retrieves the user's tasks. Unfiltered listings are cached;
// filtered and searched queries always hit the database.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	cacheable := filter == (store.TaskFilter{})
	key := cache.UserTasksKey(userID, "all")

	if cacheable {
		var cached []*domain.Task
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	tasks, err := s.taskStore.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, key, tasks, cache.TTLTasks)
	}
	return tasks, nil
}

// UpdateTask applies the sparse update after the ownership check.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.ClearDue {
		task.DueDate = nil
	} else if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.ClearList {
		task.ListID = nil
	} else if update.ListID != nil {
		if err := s.checkListOwnership(ctx, userID, *update.ListID); err != nil {
			return nil, err
		}
		task.ListID = update.ListID
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.cache.Delete(ctx, cache.TaskKey(taskID))
	return task, nil
}

// DeleteTask removes a task. Reminders go with it via the cascade.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	s.cache.Delete(ctx, cache.TaskKey(taskID))
	s.logger.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// checkListOwnership confirms the list exists and belongs to userID.
func (s *TaskServiceImpl) checkListOwnership(ctx context.Context, userID, listID uuid.UUID) error {
	list, err := s.listStore.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to resolve task list: %w", err)
	}
	if list.UserID != userID {
		return store.ErrListNotFound
	}
	return nil
}

func (s *TaskServiceImpl) invalidate(ctx context.Context, userID uuid.UUID) {
	s.cache.DeletePattern(ctx, cache.UserTasksPattern(userID))
}
