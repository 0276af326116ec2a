package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/store"
)

// TaskListService provides task list operations scoped to the requesting
// user.
type TaskListService interface {
	// CreateList creates a list owned by userID.
	CreateList(ctx context.Context, userID uuid.UUID, name, description string) (*domain.TaskList, error)

	// GetList retrieves one of the user's lists.
	GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.TaskList, error)

	// ListLists retrieves the user's lists, newest first.
	ListLists(ctx context.Context, userID uuid.UUID) ([]*domain.TaskList, error)

	// UpdateList renames or re-describes one of the user's lists.
	UpdateList(ctx context.Context, userID, listID uuid.UUID, name, description string) (*domain.TaskList, error)

	// DeleteList removes one of the user's lists. Tasks in the list are
	// kept and detached.
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
}

// TaskListServiceImpl implements the TaskListService interface.
type TaskListServiceImpl struct {
	listStore store.TaskListStore
	cache     cache.Cache
	logger    *slog.Logger
}

// NewTaskListService creates a new TaskListService.
func NewTaskListService(listStore store.TaskListStore, c cache.Cache, logger *slog.Logger) TaskListService {
	return &TaskListServiceImpl{
		listStore: listStore,
		cache:     c,
		logger:    logger.With("component", "task_list_service"),
	}
}

// CreateList creates a new list.
func (s *TaskListServiceImpl) CreateList(ctx context.Context, userID uuid.UUID, name, description string) (*domain.TaskList, error) {
	list, err := domain.NewTaskList(userID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.listStore.Create(ctx, list); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.UserListsKey(userID))
	s.logger.Info("task list created", "list_id", list.ID, "user_id", userID)
	return list, nil
}

// GetList retrieves a list, hiding other users' lists behind ErrListNotFound.
func (s *TaskListServiceImpl) GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.TaskList, error) {
	list, err := s.listStore.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, store.ErrListNotFound
	}
	return list, nil
}

// ListLists retrieves the user's lists, read-through cached.
func (s *TaskListServiceImpl) ListLists(ctx context.Context, userID uuid.UUID) ([]*domain.TaskList, error) {
	key := cache.UserListsKey(userID)

	var cached []*domain.TaskList
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	lists, err := s.listStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, lists, cache.TTLLists)
	return lists, nil
}

// UpdateList renames a list after the ownership check.
func (s *TaskListServiceImpl) UpdateList(ctx context.Context, userID, listID uuid.UUID, name, description string) (*domain.TaskList, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	list.Name = name
	list.Description = description
	list.UpdatedAt = time.Now().UTC()

	if err := list.Validate(); err != nil {
		return nil, err
	}

	if err := s.listStore.Update(ctx, list); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.UserListsKey(userID), cache.ListKey(listID))
	return list, nil
}

// DeleteList removes a list after the ownership check.
func (s *TaskListServiceImpl) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return err
	}

	if err := s.listStore.Delete(ctx, listID); err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.UserListsKey(userID), cache.ListKey(listID))
	s.cache.DeletePattern(ctx, cache.UserTasksPattern(userID))
	s.logger.Info("task list deleted", "list_id", listID, "user_id", userID)
	return nil
}
