package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/store"
)

func newTaskServiceForTest(tasks *fakeTaskStore, lists *fakeListStore, c *spyCache) TaskService {
	return NewTaskService(tasks, lists, c, discardLogger())
}

func TestCreateTask(t *testing.T) {
	userID := uuid.New()
	tasks := newFakeTaskStore()
	c := newSpyCache()
	svc := newTaskServiceForTest(tasks, newFakeListStore(), c)

	due := time.Now().Add(24 * time.Hour)
	task, err := svc.CreateTask(context.Background(), userID, "write report", "for finance", domain.PriorityHigh, &due, nil)
	require.NoError(t, err)

	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, "write report", task.Title)
	assert.False(t, task.Completed)

	stored, err := tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, stored.ID)

	assert.Contains(t, c.deletedPatterns, cache.UserTasksPattern(userID))
}

func TestCreateTask_RejectsForeignList(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	list, err := domain.NewTaskList(owner, "groceries", "")
	require.NoError(t, err)

	svc := newTaskServiceForTest(newFakeTaskStore(), newFakeListStore(list), newSpyCache())

	_, err = svc.CreateTask(context.Background(), stranger, "milk", "", domain.PriorityLow, nil, &list.ID)
	assert.ErrorIs(t, err, store.ErrListNotFound)
}

func TestGetTask_HidesOtherUsersTasks(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	task, err := domain.NewTask(owner, "private", "", domain.PriorityMedium, nil)
	require.NoError(t, err)

	svc := newTaskServiceForTest(newFakeTaskStore(task), newFakeListStore(), newSpyCache())

	got, err := svc.GetTask(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = svc.GetTask(context.Background(), stranger, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound,
		"a foreign task must be indistinguishable from a missing one")
}

func TestListTasks_UnfilteredListingIsCached(t *testing.T) {
	userID := uuid.New()
	task, err := domain.NewTask(userID, "cached", "", domain.PriorityMedium, nil)
	require.NoError(t, err)

	tasks := newFakeTaskStore(task)
	c := newSpyCache()
	svc := newTaskServiceForTest(tasks, newFakeListStore(), c)

	first, err := svc.ListTasks(context.Background(), userID, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Remove the task from the store; the cached listing still serves it.
	require.NoError(t, tasks.Delete(context.Background(), task.ID))

	second, err := svc.ListTasks(context.Background(), userID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestListTasks_FilteredQueriesBypassCache(t *testing.T) {
	userID := uuid.New()
	task, err := domain.NewTask(userID, "filter me", "", domain.PriorityHigh, nil)
	require.NoError(t, err)

	tasks := newFakeTaskStore(task)
	c := newSpyCache()
	svc := newTaskServiceForTest(tasks, newFakeListStore(), c)

	high := domain.PriorityHigh
	_, err = svc.ListTasks(context.Background(), userID, store.TaskFilter{Priority: &high})
	require.NoError(t, err)

	assert.Empty(t, c.entries, "filtered listings must not be cached")
}

func TestUpdateTask_SparseFields(t *testing.T) {
	userID := uuid.New()
	due := time.Now().Add(time.Hour)
	task, err := domain.NewTask(userID, "original", "desc", domain.PriorityMedium, &due)
	require.NoError(t, err)

	svc := newTaskServiceForTest(newFakeTaskStore(task), newFakeListStore(), newSpyCache())

	title := "renamed"
	completed := true
	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, TaskUpdate{
		Title:     &title,
		Completed: &completed,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, "desc", updated.Description, "untouched fields keep their value")
	require.NotNil(t, updated.DueDate)
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	userID := uuid.New()
	due := time.Now().Add(time.Hour)
	task, err := domain.NewTask(userID, "due soon", "", domain.PriorityMedium, &due)
	require.NoError(t, err)

	svc := newTaskServiceForTest(newFakeTaskStore(task), newFakeListStore(), newSpyCache())

	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, TaskUpdate{ClearDue: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateTask_InvalidPriorityRejected(t *testing.T) {
	userID := uuid.New()
	task, err := domain.NewTask(userID, "ok", "", domain.PriorityMedium, nil)
	require.NoError(t, err)

	svc := newTaskServiceForTest(newFakeTaskStore(task), newFakeListStore(), newSpyCache())

	bad := 7
	_, err = svc.UpdateTask(context.Background(), userID, task.ID, TaskUpdate{Priority: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestDeleteTask_InvalidatesCaches(t *testing.T) {
	userID := uuid.New()
	task, err := domain.NewTask(userID, "doomed", "", domain.PriorityLow, nil)
	require.NoError(t, err)

	tasks := newFakeTaskStore(task)
	c := newSpyCache()
	svc := newTaskServiceForTest(tasks, newFakeListStore(), c)

	require.NoError(t, svc.DeleteTask(context.Background(), userID, task.ID))

	_, err = tasks.GetByID(context.Background(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Contains(t, c.deleted, cache.TaskKey(task.ID))
	assert.Contains(t, c.deletedPatterns, cache.UserTasksPattern(userID))
}

func TestDeleteTask_OwnershipEnforced(t *testing.T) {
	owner := uuid.New()
	task, err := domain.NewTask(owner, "not yours", "", domain.PriorityLow, nil)
	require.NoError(t, err)

	tasks := newFakeTaskStore(task)
	svc := newTaskServiceForTest(tasks, newFakeListStore(), newSpyCache())

	err = svc.DeleteTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = tasks.GetByID(context.Background(), task.ID)
	assert.NoError(t, err, "the task must survive a stranger's delete")
}
