package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/store"
)

func dueReminder(t *testing.T, taskID uuid.UUID, at time.Time) *domain.TaskReminder {
	t.Helper()
	rem, err := domain.NewTaskReminder(taskID, at, domain.ReminderTypeDueDate)
	require.NoError(t, err)
	return rem
}

func TestCheckReminders_SendsDueReminderAndMarksSent(t *testing.T) {
	user := testUser(t, "UTC")
	due := mondayMorning.Add(2 * time.Hour)
	task := testTask(user.ID, "prepare slides", domain.PriorityMedium, due)

	rem := dueReminder(t, task.ID, mondayMorning.Add(-time.Minute))
	reminders := newFakeReminderStore(rem)

	mailer := mail.NewMockMailer()
	svc := NewTaskReminderService(reminders, newFakeTaskStore(task), newFakeUserStore(user), mailer).
		WithTimeFunc(fixedClock(mondayMorning))

	require.NoError(t, svc.CheckReminders(context.Background()))

	sent := mailer.SentEmails()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.Equal(t, "Recordatorio de tarea: prepare slides", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Título: prepare slides")

	stored, err := reminders.GetByID(context.Background(), rem.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sent)
}

func TestCheckReminders_FutureRemindersStayPending(t *testing.T) {
	user := testUser(t, "UTC")
	task := testTask(user.ID, "later", domain.PriorityLow, mondayMorning.Add(48*time.Hour))

	rem := dueReminder(t, task.ID, mondayMorning.Add(time.Hour))
	reminders := newFakeReminderStore(rem)

	mailer := mail.NewMockMailer()
	svc := NewTaskReminderService(reminders, newFakeTaskStore(task), newFakeUserStore(user), mailer).
		WithTimeFunc(fixedClock(mondayMorning))

	require.NoError(t, svc.CheckReminders(context.Background()))
	assert.Empty(t, mailer.SentEmails())

	stored, err := reminders.GetByID(context.Background(), rem.ID)
	require.NoError(t, err)
	assert.False(t, stored.Sent)
}

func TestCheckReminders_SendFailureRetriesNextPass(t *testing.T) {
	user := testUser(t, "UTC")
	task := testTask(user.ID, "flaky smtp", domain.PriorityMedium, mondayMorning)

	rem := dueReminder(t, task.ID, mondayMorning.Add(-time.Minute))
	reminders := newFakeReminderStore(rem)

	mailer := mail.NewMockMailer()
	mailer.Err = errors.New("smtp unavailable")

	svc := NewTaskReminderService(reminders, newFakeTaskStore(task), newFakeUserStore(user), mailer).
		WithTimeFunc(fixedClock(mondayMorning))

	require.NoError(t, svc.CheckReminders(context.Background()))
	assert.Empty(t, mailer.SentEmails())
	assert.Zero(t, reminders.markCalls, "a failed send must not consume the reminder")

	// The transport recovers; the next pass delivers.
	mailer.Err = nil
	require.NoError(t, svc.CheckReminders(context.Background()))
	require.Len(t, mailer.SentEmails(), 1)

	stored, err := reminders.GetByID(context.Background(), rem.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sent)
}

func TestCheckReminders_AlreadySentReminderIsNotResent(t *testing.T) {
	user := testUser(t, "UTC")
	task := testTask(user.ID, "done deal", domain.PriorityMedium, mondayMorning)

	rem := dueReminder(t, task.ID, mondayMorning.Add(-time.Minute))
	rem.Sent = true
	reminders := newFakeReminderStore(rem)

	mailer := mail.NewMockMailer()
	svc := NewTaskReminderService(reminders, newFakeTaskStore(task), newFakeUserStore(user), mailer).
		WithTimeFunc(fixedClock(mondayMorning))

	require.NoError(t, svc.CheckReminders(context.Background()))
	assert.Empty(t, mailer.SentEmails())
}

func TestCheckReminders_MissingTaskIsContained(t *testing.T) {
	user := testUser(t, "UTC")
	orphan := dueReminder(t, uuid.New(), mondayMorning.Add(-time.Minute))
	reminders := newFakeReminderStore(orphan)

	mailer := mail.NewMockMailer()
	svc := NewTaskReminderService(reminders, newFakeTaskStore(), newFakeUserStore(user), mailer).
		WithTimeFunc(fixedClock(mondayMorning))

	require.NoError(t, svc.CheckReminders(context.Background()))
	assert.Empty(t, mailer.SentEmails())
}

func TestCreateReminder_RequiresExistingTask(t *testing.T) {
	user := testUser(t, "UTC")
	task := testTask(user.ID, "real task", domain.PriorityMedium, mondayMorning)

	svc := NewTaskReminderService(newFakeReminderStore(), newFakeTaskStore(task), newFakeUserStore(user), mail.NewMockMailer())

	created, err := svc.CreateReminder(context.Background(), task.ID, mondayMorning.Add(time.Hour), domain.ReminderTypeCustom)
	require.NoError(t, err)
	assert.Equal(t, task.ID, created.TaskID)
	assert.False(t, created.Sent)

	_, err = svc.CreateReminder(context.Background(), testTask(user.ID, "phantom", domain.PriorityLow, mondayMorning).ID, mondayMorning, domain.ReminderTypeCustom)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestGetTaskReminders_OnlyPending(t *testing.T) {
	user := testUser(t, "UTC")
	task := testTask(user.ID, "with reminders", domain.PriorityMedium, mondayMorning)

	pending := dueReminder(t, task.ID, mondayMorning.Add(time.Hour))
	delivered := dueReminder(t, task.ID, mondayMorning.Add(-time.Hour))
	delivered.Sent = true

	svc := NewTaskReminderService(newFakeReminderStore(pending, delivered), newFakeTaskStore(task), newFakeUserStore(user), mail.NewMockMailer())

	got, err := svc.GetTaskReminders(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestBuildReminderBody(t *testing.T) {
	t.Parallel()

	user := &domain.User{Timezone: "America/New_York"}
	due := time.Date(2026, time.March, 2, 18, 30, 0, 0, time.UTC)
	task := &domain.Task{
		Title:       "quarterly report",
		Description: "numbers for Q1",
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
	}

	body := buildReminderBody(task, user)
	assert.Contains(t, body, "Título: quarterly report")
	assert.Contains(t, body, "Descripción: numbers for Q1")
	// 18:30 UTC renders as 13:30 New York time.
	assert.Contains(t, body, "Fecha límite: 02/03/2026 13:30")
}

func TestBuildReminderBody_NoDueDate(t *testing.T) {
	t.Parallel()

	body := buildReminderBody(&domain.Task{Title: "open ended", Priority: domain.PriorityLow}, &domain.User{Timezone: "UTC"})
	assert.Contains(t, body, "sin fecha límite")
}
