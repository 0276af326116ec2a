package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/platform/metrics"
	"github.com/listoapp/listo-api/internal/store"
)

// TaskReminderService manages persisted per-task reminders and dispatches
// the ones that have come due. A reminder fires at most once: the sent flag
// flips through a conditional update, so two overlapping dispatch passes
// cannot both deliver the same reminder.
type TaskReminderService struct {
	reminders store.TaskReminderStore
	tasks     store.TaskStore
	users     store.UserStore
	mailer    mail.Mailer

	timeFunc func() time.Time
}

// NewTaskReminderService creates the per-task reminder dispatcher.
func NewTaskReminderService(reminders store.TaskReminderStore, tasks store.TaskStore, users store.UserStore, mailer mail.Mailer) *TaskReminderService {
	return &TaskReminderService{
		reminders: reminders,
		tasks:     tasks,
		users:     users,
		mailer:    mailer,
		timeFunc:  time.Now,
	}
}

// WithTimeFunc overrides the clock. Test hook.
func (s *TaskReminderService) WithTimeFunc(fn func() time.Time) *TaskReminderService {
	s.timeFunc = fn
	return s
}

// CreateReminder persists a new unsent reminder for an existing task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskReminderService) CreateReminder(ctx context.Context, taskID uuid.UUID, at time.Time, typ domain.ReminderType) (*domain.TaskReminder, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	reminder, err := domain.NewTaskReminder(taskID, at, typ)
	if err != nil {
		return nil, err
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

// GetTaskReminders returns the unsent reminders for a task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskReminderService) GetTaskReminders(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskReminder, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.reminders.ListPendingByTask(ctx, taskID)
}

// DeleteReminder removes a reminder regardless of its sent state.
func (s *TaskReminderService) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	return s.reminders.Delete(ctx, id)
}

// CheckReminders runs one dispatch pass: every unsent reminder whose time
// has arrived gets its email sent and its sent flag flipped. A send failure
// leaves the reminder unsent, so the next pass retries it; there is no
// retry cap.
func (s *TaskReminderService) CheckReminders(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load due reminders: %w", err)
	}

	for _, reminder := range due {
		s.dispatch(ctx, log, reminder)
	}

	return nil
}

func (s *TaskReminderService) dispatch(ctx context.Context, log *slog.Logger, reminder *domain.TaskReminder) {
	log = log.With("reminder_id", reminder.ID, "task_id", reminder.TaskID)

	task, err := s.tasks.GetByID(ctx, reminder.TaskID)
	if err != nil {
		log.Error("failed to load task for reminder", "error", err)
		return
	}

	user, err := s.users.GetByID(ctx, task.UserID)
	if err != nil {
		log.Error("failed to load task owner for reminder", "error", err)
		return
	}

	subject := "Recordatorio de tarea: " + task.Title
	body := buildReminderBody(task, user)

	if err := s.mailer.SendSimpleEmail(ctx, user.Email, subject, body); err != nil {
		metrics.ReminderErrorsTotal.WithLabelValues("task_reminder").Inc()
		log.Error("failed to send task reminder, will retry next pass", "error", err)
		return
	}

	marked, err := s.reminders.MarkSent(ctx, reminder.ID)
	if err != nil {
		log.Error("failed to mark reminder as sent", "error", err)
		return
	}
	if !marked {
		// Another pass won the transition; nothing further to do.
		log.Debug("reminder already marked sent by a concurrent pass")
		return
	}

	metrics.RemindersSentTotal.WithLabelValues("task_reminder").Inc()
	log.Info("task reminder sent", "to", user.Email)
}

// buildReminderBody formats the plain text reminder. Dates render in the
// owner's timezone when it parses, UTC otherwise.
func buildReminderBody(task *domain.Task, user *domain.User) string {
	due := "sin fecha límite"
	if task.DueDate != nil {
		loc, err := user.Location()
		if err != nil {
			loc = time.UTC
		}
		due = task.DueDate.In(loc).Format("02/01/2006 15:04")
	}

	return fmt.Sprintf(
		"Tienes una tarea pendiente:\n\nTítulo: %s\nDescripción: %s\nPrioridad: %s\nFecha límite: %s\n",
		task.Title,
		task.Description,
		task.PriorityLabel(),
		due,
	)
}
