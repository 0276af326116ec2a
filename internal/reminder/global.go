package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/platform/metrics"
	"github.com/listoapp/listo-api/internal/store"
)

// Digest email subjects. Kept in Spanish to match the product's audience.
const (
	subjectDueDateDigest = "Recordatorio: Tareas vencidas o próximas a vencer"
	subjectDailySummary  = "Resumen diario de tareas pendientes"
	subjectWeeklySummary = "Resumen semanal de tareas pendientes"
)

// GlobalService evaluates every user's notification preferences on each
// scheduler tick and sends whatever digests are due. It keeps no state
// between ticks and never writes to the database, so a digest whose
// condition still holds a minute later fires again.
type GlobalService struct {
	prefs  store.PreferencesStore
	users  store.UserStore
	tasks  store.TaskStore
	mailer mail.Mailer

	// timeFunc returns the current time; injectable for tests.
	timeFunc func() time.Time
}

// NewGlobalService creates the per-minute digest evaluator.
func NewGlobalService(prefs store.PreferencesStore, users store.UserStore, tasks store.TaskStore, mailer mail.Mailer) *GlobalService {
	return &GlobalService{
		prefs:    prefs,
		users:    users,
		tasks:    tasks,
		mailer:   mailer,
		timeFunc: time.Now,
	}
}

// WithTimeFunc overrides the clock. Test hook.
func (s *GlobalService) WithTimeFunc(fn func() time.Time) *GlobalService {
	s.timeFunc = fn
	return s
}

// CheckAndSendReminders runs one evaluation pass over all preference
// records. A failure for one user never stops the pass; each record is
// processed inside its own error boundary.
func (s *GlobalService) CheckAndSendReminders(ctx context.Context) error {
	log := logger.FromContext(ctx)

	all, err := s.prefs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notification preferences: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	log.Debug("evaluating notification preferences", "count", len(all))

	for _, prefs := range all {
		s.processUser(ctx, prefs)
	}

	return nil
}

// processUser evaluates one user's categories. Every failure is logged and
// contained here.
func (s *GlobalService) processUser(ctx context.Context, prefs *domain.NotificationPreferences) {
	log := logger.FromContext(ctx).With("user_id", prefs.UserID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while evaluating reminders for user", "panic", r)
		}
	}()

	user, err := s.users.GetByID(ctx, prefs.UserID)
	if err != nil {
		log.Error("failed to load user for reminder evaluation", "error", err)
		return
	}

	loc, err := user.Location()
	if err != nil {
		log.Warn("user has invalid timezone, skipping reminders", "timezone", user.Timezone, "error", err)
		return
	}

	now := s.timeFunc().In(loc)

	if isWeekend(now) && !prefs.WeekendNotifications {
		return
	}

	if prefs.DueDateReminder {
		s.sendDueDateDigest(ctx, log, prefs, user, now)
	}
	if prefs.DailySummary {
		s.sendDailySummary(ctx, log, prefs, user, now)
	}
	if prefs.WeeklySummary {
		s.sendWeeklySummary(ctx, log, prefs, user, now)
	}
}

// sendDueDateDigest merges overdue tasks with tasks due within the lead
// window into a single digest email.
func (s *GlobalService) sendDueDateDigest(ctx context.Context, log *slog.Logger, prefs *domain.NotificationPreferences, user *domain.User, now time.Time) {
	lead, err := ParseLead(prefs.DueDateReminderLead)
	if err != nil {
		log.Warn("invalid due date reminder lead, skipping category", "lead", prefs.DueDateReminderLead)
		return
	}

	overdue, err := s.tasks.ListOverdue(ctx, user.ID, now)
	if err != nil {
		log.Error("failed to load overdue tasks", "error", err)
		return
	}

	upcoming, err := s.tasks.ListDueBetween(ctx, user.ID, now, now.Add(lead))
	if err != nil {
		log.Error("failed to load upcoming tasks", "error", err)
		return
	}

	tasks := filterByPriority(mergeTasks(overdue, upcoming), prefs)
	if len(tasks) == 0 {
		return
	}

	s.deliver(ctx, log, "due_date", prefs.Email, subjectDueDateDigest, tasks, user)
}

// sendDailySummary fires only on the minute the user configured, comparing
// minute-truncated wall clock time in the user's timezone.
func (s *GlobalService) sendDailySummary(ctx context.Context, log *slog.Logger, prefs *domain.NotificationPreferences, user *domain.User, now time.Time) {
	if !minuteMatches(now, prefs.DailySummaryTime) {
		return
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	tasks, err := s.tasks.ListDueBetween(ctx, user.ID, startOfDay, endOfDay)
	if err != nil {
		log.Error("failed to load tasks for daily summary", "error", err)
		return
	}

	tasks = filterByPriority(tasks, prefs)
	if len(tasks) == 0 {
		return
	}

	s.deliver(ctx, log, "daily_summary", prefs.Email, subjectDailySummary, tasks, user)
}

// sendWeeklySummary fires when both the minute and the lower-case weekday
// name match. The summary covers the user-local Monday-to-Monday week.
func (s *GlobalService) sendWeeklySummary(ctx context.Context, log *slog.Logger, prefs *domain.NotificationPreferences, user *domain.User, now time.Time) {
	if !minuteMatches(now, prefs.WeeklySummaryTime) {
		return
	}

	day, err := domain.ParseWeekday(prefs.WeeklySummaryDay)
	if err != nil {
		log.Warn("invalid weekly summary day, skipping category", "day", prefs.WeeklySummaryDay)
		return
	}
	if now.Weekday() != day {
		return
	}

	startOfWeek := startOfISOWeek(now)
	endOfWeek := startOfWeek.AddDate(0, 0, 7)

	tasks, err := s.tasks.ListDueBetween(ctx, user.ID, startOfWeek, endOfWeek)
	if err != nil {
		log.Error("failed to load tasks for weekly summary", "error", err)
		return
	}

	tasks = filterByPriority(tasks, prefs)
	if len(tasks) == 0 {
		return
	}

	s.deliver(ctx, log, "weekly_summary", prefs.Email, subjectWeeklySummary, tasks, user)
}

func (s *GlobalService) deliver(ctx context.Context, log *slog.Logger, category, to, subject string, tasks []*domain.Task, user *domain.User) {
	if err := s.mailer.SendTaskReminderEmail(ctx, to, subject, tasks, user); err != nil {
		metrics.ReminderErrorsTotal.WithLabelValues(category).Inc()
		log.Error("failed to send reminder email", "category", category, "error", err)
		return
	}
	metrics.RemindersSentTotal.WithLabelValues(category).Inc()
	log.Info("reminder email sent", "category", category, "tasks", len(tasks))
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// minuteMatches compares the minute-truncated wall clock against an "HH:MM"
// string. A malformed string never matches.
func minuteMatches(now time.Time, hhmm string) bool {
	return now.Format("15:04") == hhmm
}

// startOfISOWeek returns the most recent Monday at midnight in t's location.
func startOfISOWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

// mergeTasks concatenates two task slices, dropping duplicates by ID. A task
// cannot be both overdue and upcoming, but the guard keeps the merge safe if
// the windows ever touch.
func mergeTasks(a, b []*domain.Task) []*domain.Task {
	seen := make(map[string]bool, len(a))
	merged := make([]*domain.Task, 0, len(a)+len(b))
	for _, t := range a {
		if !seen[t.ID.String()] {
			seen[t.ID.String()] = true
			merged = append(merged, t)
		}
	}
	for _, t := range b {
		if !seen[t.ID.String()] {
			seen[t.ID.String()] = true
			merged = append(merged, t)
		}
	}
	return merged
}

func filterByPriority(tasks []*domain.Task, prefs *domain.NotificationPreferences) []*domain.Task {
	if prefs.MinPriority == 0 {
		return tasks
	}
	filtered := tasks[:0:0]
	for _, t := range tasks {
		if prefs.WantsPriority(t.Priority) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
