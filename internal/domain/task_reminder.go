package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskReminder validation errors
var (
	ErrEmptyReminderID     = errors.New("reminder ID cannot be empty")
	ErrEmptyReminderTaskID = errors.New("reminder must reference a task")
	ErrZeroReminderTime    = errors.New("reminder time cannot be zero")
)

// ReminderType classifies a task reminder.
type ReminderType string

// Known reminder types.
const (
	ReminderTypeDueDate  ReminderType = "DUE_DATE"
	ReminderTypeFollowUp ReminderType = "FOLLOW_UP"
	ReminderTypeCustom   ReminderType = "CUSTOM"
)

// Validate checks that the reminder type is one of the known values.
func (t ReminderType) Validate() error {
	switch t {
	case ReminderTypeDueDate, ReminderTypeFollowUp, ReminderTypeCustom:
		return nil
	default:
		return ErrInvalidReminderType
	}
}

// TaskReminder is an explicit, user-created reminder for a single task.
// Its lifecycle is a single one-way transition: pending (sent=false) to
// sent (sent=true), flipped exactly once on successful email dispatch.
// Sent rows are never reset; old ones are purged by the maintenance job.
type TaskReminder struct {
	ID           uuid.UUID    `json:"id"`
	TaskID       uuid.UUID    `json:"task_id"`
	ReminderTime time.Time    `json:"reminder_time"`
	ReminderType ReminderType `json:"reminder_type"`
	Sent         bool         `json:"sent"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewTaskReminder creates a new pending TaskReminder for the given task.
// Returns an error if validation fails.
func NewTaskReminder(taskID uuid.UUID, reminderTime time.Time, reminderType ReminderType) (*TaskReminder, error) {
	reminder := &TaskReminder{
		ID:           uuid.New(),
		TaskID:       taskID,
		ReminderTime: reminderTime,
		ReminderType: reminderType,
		Sent:         false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	return reminder, nil
}

// Validate checks if the TaskReminder has valid data.
func (r *TaskReminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyReminderID
	}
	if r.TaskID == uuid.Nil {
		return ErrEmptyReminderTaskID
	}
	if r.ReminderTime.IsZero() {
		return ErrZeroReminderTime
	}
	return r.ReminderType.Validate()
}
