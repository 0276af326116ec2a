package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/store"
)

// PreferencesInput carries the notification settings a user submits. The
// whole record is replaced on every save.
type PreferencesInput struct {
	Email                string
	DueDateReminder      bool
	FollowUpReminder     bool
	DailySummary         bool
	WeeklySummary        bool
	WeekendNotifications bool
	DueDateReminderLead  string
	DailySummaryTime     string
	WeeklySummaryTime    string
	WeeklySummaryDay     string
	MinPriority          int
}

// PreferencesService manages per-user notification preferences.
type PreferencesService interface {
	// GetPreferences returns the user's record, or a disabled-everything
	// default when none was ever saved.
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)

	// SavePreferences upserts the user's record. The delivery email falls
	// back to the account email when left empty.
	SavePreferences(ctx context.Context, userID uuid.UUID, input PreferencesInput) (*domain.NotificationPreferences, error)
}

// PreferencesServiceImpl implements the PreferencesService interface.
type PreferencesServiceImpl struct {
	prefsStore store.PreferencesStore
	userStore  store.UserStore
	logger     *slog.Logger
}

// NewPreferencesService creates a new PreferencesService.
func NewPreferencesService(prefsStore store.PreferencesStore, userStore store.UserStore, logger *slog.Logger) PreferencesService {
	return &PreferencesServiceImpl{
		prefsStore: prefsStore,
		userStore:  userStore,
		logger:     logger.With("component", "preferences_service"),
	}
}

// GetPreferences returns the saved record or an unsaved default. The
// default is not persisted; a user who never saved preferences never
// appears in the reminder evaluator's scan.
func (s *PreferencesServiceImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	prefs, err := s.prefsStore.GetByUser(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, store.ErrPreferencesNotFound) {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return domain.NewNotificationPreferences(userID, user.Email)
}

// SavePreferences validates and upserts the record.
func (s *PreferencesServiceImpl) SavePreferences(ctx context.Context, userID uuid.UUID, input PreferencesInput) (*domain.NotificationPreferences, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := input.Email
	if email == "" {
		email = user.Email
	}

	now := time.Now().UTC()
	prefs := &domain.NotificationPreferences{
		ID:                   uuid.New(),
		UserID:               userID,
		Email:                email,
		DueDateReminder:      input.DueDateReminder,
		FollowUpReminder:     input.FollowUpReminder,
		DailySummary:         input.DailySummary,
		WeeklySummary:        input.WeeklySummary,
		WeekendNotifications: input.WeekendNotifications,
		DueDateReminderLead:  input.DueDateReminderLead,
		DailySummaryTime:     input.DailySummaryTime,
		WeeklySummaryTime:    input.WeeklySummaryTime,
		WeeklySummaryDay:     input.WeeklySummaryDay,
		MinPriority:          input.MinPriority,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	// Save preserves the existing row's ID and creation time on update.
	if err := s.prefsStore.Save(ctx, prefs); err != nil {
		return nil, err
	}

	s.logger.Info("notification preferences saved", "user_id", userID)
	return prefs, nil
}
