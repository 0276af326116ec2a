package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// Key builders. Keys are namespaced by entity family so invalidation after
// a write can target one user's entries with a single pattern delete.

func UserKey(userID uuid.UUID) string {
	return fmt.Sprintf("users:%s", userID)
}

func TaskKey(taskID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s", taskID)
}

func UserTasksKey(userID uuid.UUID, variant string) string {
	return fmt.Sprintf("tasks:user:%s:%s", userID, variant)
}

func UserTasksPattern(userID uuid.UUID) string {
	return fmt.Sprintf("tasks:user:%s:*", userID)
}

func ListKey(listID uuid.UUID) string {
	return fmt.Sprintf("lists:%s", listID)
}

func UserListsKey(userID uuid.UUID) string {
	return fmt.Sprintf("lists:user:%s", userID)
}
