package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/store"
)

type fakeReminderStore struct {
	store.TaskReminderStore

	purged    int64
	purgeErr  error
	gotCutoff time.Time
}

func (s *fakeReminderStore) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.gotCutoff = cutoff
	return s.purged, s.purgeErr
}

type fakeResetStore struct {
	store.PasswordResetStore

	expired   int64
	purgeErr  error
	gotBefore time.Time
}

func (s *fakeResetStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	s.gotBefore = before
	return s.expired, s.purgeErr
}

type flushRecorder struct {
	flushed bool
}

func (c *flushRecorder) Get(ctx context.Context, key string, dest interface{}) bool { return false }

func (c *flushRecorder) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
}

func (c *flushRecorder) Delete(ctx context.Context, keys ...string) {}

func (c *flushRecorder) DeletePattern(ctx context.Context, pattern string) {}

func (c *flushRecorder) Flush(ctx context.Context) { c.flushed = true }

func TestRun_PurgesAndFlushes(t *testing.T) {
	reminders := &fakeReminderStore{purged: 3}
	tokens := &fakeResetStore{expired: 2}
	c := &flushRecorder{}

	now := time.Date(2026, time.March, 2, 2, 0, 0, 0, time.UTC)
	svc := NewService(reminders, tokens, c, config.MaintenanceConfig{Enabled: true, ReminderRetentionDays: 30}).
		WithTimeFunc(func() time.Time { return now })

	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, now.Add(-30*24*time.Hour), reminders.gotCutoff)
	assert.Equal(t, now, tokens.gotBefore)
	assert.True(t, c.flushed)
}

func TestRun_PartialFailureStillRunsRemainingSteps(t *testing.T) {
	reminders := &fakeReminderStore{purgeErr: errors.New("relation is locked")}
	tokens := &fakeResetStore{expired: 1}
	c := &flushRecorder{}

	svc := NewService(reminders, tokens, c, config.MaintenanceConfig{ReminderRetentionDays: 7})

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sent reminders")

	// The later steps still ran.
	assert.False(t, tokens.gotBefore.IsZero())
	assert.True(t, c.flushed)
}

func TestRun_FirstErrorWins(t *testing.T) {
	reminders := &fakeReminderStore{purgeErr: errors.New("first")}
	tokens := &fakeResetStore{purgeErr: errors.New("second")}

	svc := NewService(reminders, tokens, &flushRecorder{}, config.MaintenanceConfig{ReminderRetentionDays: 7})

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
}

// Compile-time check that the embedded interfaces in the fakes still match
// the real store contracts.
var (
	_ store.TaskReminderStore  = (*fakeReminderStore)(nil)
	_ store.PasswordResetStore = (*fakeResetStore)(nil)
)
