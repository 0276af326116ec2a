package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences validation errors
var (
	ErrEmptyPreferencesID    = errors.New("preferences ID cannot be empty")
	ErrEmptyPreferencesUser  = errors.New("preferences must belong to a user")
	ErrEmptyDeliveryEmail    = errors.New("delivery email cannot be empty")
	ErrInvalidSummaryWeekday = errors.New("invalid weekly summary day")
)

// Lower-case English weekday names accepted for WeeklySummaryDay,
// matching what the frontend sends.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a lower-case English weekday name.
// Returns ErrInvalidSummaryWeekday for anything else.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[name]
	if !ok {
		return time.Sunday, ErrInvalidSummaryWeekday
	}
	return day, nil
}

// NotificationPreferences holds a user's reminder configuration. Exactly one
// record exists per user; saves go through an upsert (lookup by user before
// insert) so a record is never duplicated.
//
// Invariant: when a category flag is enabled, the companion time or duration
// field must be parseable. The reminder evaluator does not reject bad values
// at write time; it logs and skips that user's category on each tick instead.
type NotificationPreferences struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	// Email is the delivery address for all reminder categories. It may
	// differ from the account email.
	Email string `json:"email"`

	DueDateReminder      bool `json:"due_date_reminder"`
	FollowUpReminder     bool `json:"follow_up_reminder"`
	DailySummary         bool `json:"daily_summary"`
	WeeklySummary        bool `json:"weekly_summary"`
	WeekendNotifications bool `json:"weekend_notifications"`

	// DueDateReminderLead is the lead-time duration string ("2d", "6h").
	// Only the trailing unit letters 'd' and 'h' are recognized.
	DueDateReminderLead string `json:"due_date_reminder_lead"`

	// DailySummaryTime and WeeklySummaryTime are "HH:MM" wall-clock strings
	// in the user's timezone.
	DailySummaryTime  string `json:"daily_summary_time"`
	WeeklySummaryTime string `json:"weekly_summary_time"`

	// WeeklySummaryDay is a lower-case English weekday name ("monday").
	WeeklySummaryDay string `json:"weekly_summary_day"`

	// MinPriority filters digest contents: tasks with a numerically higher
	// (less urgent) priority are excluded. Zero disables the filter.
	MinPriority int `json:"min_priority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNotificationPreferences creates a preferences record for the given user
// with every category disabled. Returns an error if validation fails.
func NewNotificationPreferences(userID uuid.UUID, email string) (*NotificationPreferences, error) {
	prefs := &NotificationPreferences{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	return prefs, nil
}

// Validate checks if the NotificationPreferences has valid data.
func (p *NotificationPreferences) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPreferencesID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyPreferencesUser
	}
	if p.Email == "" {
		return ErrEmptyDeliveryEmail
	}
	if !validateEmailFormat(p.Email) {
		return ErrInvalidEmail
	}
	if p.MinPriority != 0 && (p.MinPriority < PriorityHigh || p.MinPriority > PriorityLow) {
		return ErrInvalidPriority
	}
	return nil
}

// WantsPriority reports whether a task of the given priority passes the
// minimum-priority filter.
func (p *NotificationPreferences) WantsPriority(priority int) bool {
	if p.MinPriority == 0 {
		return true
	}
	return priority <= p.MinPriority
}
