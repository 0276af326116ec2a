package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskList validation errors
var (
	ErrEmptyListID     = errors.New("list ID cannot be empty")
	ErrEmptyListName   = errors.New("list name cannot be empty")
	ErrEmptyListUserID = errors.New("list must belong to a user")
)

// TaskList groups tasks for a single owner. Deleting a list does not
// delete its tasks; they are detached instead.
type TaskList struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskList creates a new TaskList owned by the given user.
// Returns an error if validation fails.
func NewTaskList(userID uuid.UUID, name, description string) (*TaskList, error) {
	list := &TaskList{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}

	return list, nil
}

// Validate checks if the TaskList has valid data.
func (l *TaskList) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListID
	}
	if l.UserID == uuid.Nil {
		return ErrEmptyListUserID
	}
	if l.Name == "" {
		return ErrEmptyListName
	}
	return nil
}
