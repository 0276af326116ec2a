package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrEmptyTaskUserID = errors.New("task must be assigned to a user")
)

// Task priorities. Lower value means more urgent.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task represents a single to-do item owned by a user and optionally
// grouped into a TaskList. The reminder engine only ever reads tasks;
// completion and due dates are mutated exclusively through the task API.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ListID      *uuid.UUID `json:"list_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task assigned to the given user.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, priority int, dueDate *time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   false,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if t.Priority < PriorityHigh || t.Priority > PriorityLow {
		return ErrInvalidPriority
	}
	return nil
}

// PriorityLabel returns the human-readable label for the task's priority,
// as used in reminder emails.
func (t *Task) PriorityLabel() string {
	switch t.Priority {
	case PriorityHigh:
		return "Alta"
	case PriorityMedium:
		return "Media"
	case PriorityLow:
		return "Baja"
	default:
		return "Desconocida"
	}
}
