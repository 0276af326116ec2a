package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
)

// Auth

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the payload for obtaining a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the token pair issued on register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
}

// PasswordResetRequest asks for a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm consumes a reset token.
type PasswordResetConfirm struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=12,max=72"`
}

// Users

// UpdateProfileRequest changes the contact email and timezone together.
type UpdateProfileRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Timezone string `json:"timezone" validate:"required"`
}

// UpdateTimezoneRequest changes the profile timezone.
type UpdateTimezoneRequest struct {
	Timezone string `json:"timezone" validate:"required"`
}

// UserResponse is the public profile shape.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its API shape.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt,
	}
}

// Tasks

// CreateTaskRequest is the payload for task creation.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    int        `json:"priority"    validate:"omitempty,min=1,max=3"`
	DueDate     *time.Time `json:"due_date"`
	ListID      *uuid.UUID `json:"list_id"`
}

// UpdateTaskRequest is the sparse payload for task updates. Absent fields
// are left unchanged; the clear flags null out due date and list.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool      `json:"completed"`
	Priority    *int       `json:"priority"    validate:"omitempty,min=1,max=3"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due_date"`
	ListID      *uuid.UUID `json:"list_id"`
	ClearList   bool       `json:"clear_list"`
}

// TaskResponse is the API shape of a task.
type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	ListID        *uuid.UUID `json:"list_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	Priority      int        `json:"priority"`
	PriorityLabel string     `json:"priority_label"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTaskResponse maps a domain task to its API shape.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		ListID:        t.ListID,
		Title:         t.Title,
		Description:   t.Description,
		Completed:     t.Completed,
		Priority:      t.Priority,
		PriorityLabel: t.PriorityLabel(),
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewTaskListResponse maps a slice of tasks. Returns an empty slice rather
// than nil so the JSON is always an array.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// Task lists

// CreateListRequest is the payload for creating a task list.
type CreateListRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// ListResponse is the API shape of a task list.
type ListResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewListResponse maps a domain task list to its API shape.
func NewListResponse(l *domain.TaskList) ListResponse {
	return ListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// Reminders

// CreateReminderRequest schedules a reminder for a task.
type CreateReminderRequest struct {
	ReminderTime time.Time `json:"reminder_time" validate:"required"`
	ReminderType string    `json:"reminder_type" validate:"required,oneof=DUE_DATE FOLLOW_UP CUSTOM"`
}

// ReminderResponse is the API shape of a task reminder.
type ReminderResponse struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"task_id"`
	ReminderTime time.Time `json:"reminder_time"`
	ReminderType string    `json:"reminder_type"`
	Sent         bool      `json:"sent"`
}

// NewReminderResponse maps a domain reminder to its API shape.
func NewReminderResponse(rem *domain.TaskReminder) ReminderResponse {
	return ReminderResponse{
		ID:           rem.ID,
		TaskID:       rem.TaskID,
		ReminderTime: rem.ReminderTime,
		ReminderType: string(rem.ReminderType),
		Sent:         rem.Sent,
	}
}

// Notification preferences

// PreferencesRequest replaces the user's notification settings.
type PreferencesRequest struct {
	Email                string `json:"email"                 validate:"omitempty,email"`
	DueDateReminder      bool   `json:"due_date_reminder"`
	FollowUpReminder     bool   `json:"follow_up_reminder"`
	DailySummary         bool   `json:"daily_summary"`
	WeeklySummary        bool   `json:"weekly_summary"`
	WeekendNotifications bool   `json:"weekend_notifications"`
	DueDateReminderLead  string `json:"due_date_reminder_lead"`
	DailySummaryTime     string `json:"daily_summary_time"    validate:"omitempty,len=5"`
	WeeklySummaryTime    string `json:"weekly_summary_time"   validate:"omitempty,len=5"`
	WeeklySummaryDay     string `json:"weekly_summary_day"`
	MinPriority          int    `json:"min_priority"          validate:"omitempty,min=1,max=3"`
}

// PreferencesResponse is the API shape of a preferences record.
type PreferencesResponse struct {
	Email                string `json:"email"`
	DueDateReminder      bool   `json:"due_date_reminder"`
	FollowUpReminder     bool   `json:"follow_up_reminder"`
	DailySummary         bool   `json:"daily_summary"`
	WeeklySummary        bool   `json:"weekly_summary"`
	WeekendNotifications bool   `json:"weekend_notifications"`
	DueDateReminderLead  string `json:"due_date_reminder_lead"`
	DailySummaryTime     string `json:"daily_summary_time"`
	WeeklySummaryTime    string `json:"weekly_summary_time"`
	WeeklySummaryDay     string `json:"weekly_summary_day"`
	MinPriority          int    `json:"min_priority"`
}

// NewPreferencesResponse maps a domain preferences record to its API shape.
func NewPreferencesResponse(p *domain.NotificationPreferences) PreferencesResponse {
	return PreferencesResponse{
		Email:                p.Email,
		DueDateReminder:      p.DueDateReminder,
		FollowUpReminder:     p.FollowUpReminder,
		DailySummary:         p.DailySummary,
		WeeklySummary:        p.WeeklySummary,
		WeekendNotifications: p.WeekendNotifications,
		DueDateReminderLead:  p.DueDateReminderLead,
		DailySummaryTime:     p.DailySummaryTime,
		WeeklySummaryTime:    p.WeeklySummaryTime,
		WeeklySummaryDay:     p.WeeklySummaryDay,
		MinPriority:          p.MinPriority,
	}
}

// App status

// StatusResponse describes the schedule gate for the status endpoints.
type StatusResponse struct {
	Status          string `json:"status"`
	ScheduleStatus  string `json:"scheduleStatus"`
	CurrentSchedule string `json:"currentSchedule"`
	NextStartTime   string `json:"nextStartTime"`
}
