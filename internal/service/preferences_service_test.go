package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/store"
)

func validPreferencesInput() PreferencesInput {
	return PreferencesInput{
		DueDateReminder:     true,
		DueDateReminderLead: "2d",
		DailySummary:        true,
		DailySummaryTime:    "08:30",
	}
}

func TestGetPreferences_DefaultIsNotPersisted(t *testing.T) {
	user := newTestUser(t, "prefs@example.com")
	prefs := newFakePrefsStore()
	svc := NewPreferencesService(prefs, newFakeUserStore(user), discardLogger())

	got, err := svc.GetPreferences(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.Email, got.Email)
	assert.False(t, got.DueDateReminder)
	assert.Empty(t, prefs.records,
		"reading the default must not enroll the user in the reminder scan")
}

func TestGetPreferences_UnknownUser(t *testing.T) {
	svc := NewPreferencesService(newFakePrefsStore(), newFakeUserStore(), discardLogger())

	_, err := svc.GetPreferences(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSavePreferences(t *testing.T) {
	user := newTestUser(t, "prefs@example.com")
	prefs := newFakePrefsStore()
	svc := NewPreferencesService(prefs, newFakeUserStore(user), discardLogger())

	saved, err := svc.SavePreferences(context.Background(), user.ID, validPreferencesInput())
	require.NoError(t, err)

	assert.Equal(t, user.Email, saved.Email, "empty input email falls back to the account email")
	assert.True(t, saved.DueDateReminder)
	assert.Equal(t, "2d", saved.DueDateReminderLead)

	stored, err := prefs.GetByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, stored.ID)
}

func TestSavePreferences_ResaveKeepsIdentity(t *testing.T) {
	user := newTestUser(t, "prefs@example.com")
	prefs := newFakePrefsStore()
	svc := NewPreferencesService(prefs, newFakeUserStore(user), discardLogger())

	first, err := svc.SavePreferences(context.Background(), user.ID, validPreferencesInput())
	require.NoError(t, err)

	input := validPreferencesInput()
	input.DailySummaryTime = "19:00"
	second, err := svc.SavePreferences(context.Background(), user.ID, input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-saving must not mint a new record")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "19:00", second.DailySummaryTime)
}

func TestSavePreferences_OverridesDeliveryEmail(t *testing.T) {
	user := newTestUser(t, "account@example.com")
	svc := NewPreferencesService(newFakePrefsStore(), newFakeUserStore(user), discardLogger())

	input := validPreferencesInput()
	input.Email = "digest@example.com"
	saved, err := svc.SavePreferences(context.Background(), user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "digest@example.com", saved.Email)
}

func TestSavePreferences_InvalidInputRejected(t *testing.T) {
	user := newTestUser(t, "prefs@example.com")
	prefs := newFakePrefsStore()
	svc := NewPreferencesService(prefs, newFakeUserStore(user), discardLogger())

	input := validPreferencesInput()
	input.MinPriority = 7
	_, err := svc.SavePreferences(context.Background(), user.ID, input)
	assert.Error(t, err)
	assert.Empty(t, prefs.records)
}
