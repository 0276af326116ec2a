package reminder

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/store"
)

// fakeUserStore serves users from a map.
type fakeUserStore struct {
	users  map[uuid.UUID]*domain.User
	getErr error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeTaskStore serves canned query results.
type fakeTaskStore struct {
	tasks      map[uuid.UUID]*domain.Task
	overdue    []*domain.Task
	dueBetween []*domain.Task
	queryErr   error
}

func newFakeTaskStore(tasks ...*domain.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return t, nil
}

func (s *fakeTaskStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Task, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.dueBetween, nil
}

func (s *fakeTaskStore) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Task, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.overdue, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

// fakePrefsStore serves a fixed list of preference records.
type fakePrefsStore struct {
	records []*domain.NotificationPreferences
	listErr error
}

func (s *fakePrefsStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	for _, p := range s.records {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, store.ErrPreferencesNotFound
}

func (s *fakePrefsStore) Save(ctx context.Context, prefs *domain.NotificationPreferences) error {
	for i, p := range s.records {
		if p.UserID == prefs.UserID {
			s.records[i] = prefs
			return nil
		}
	}
	s.records = append(s.records, prefs)
	return nil
}

func (s *fakePrefsStore) ListAll(ctx context.Context) ([]*domain.NotificationPreferences, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.records, nil
}

func (s *fakePrefsStore) Delete(ctx context.Context, userID uuid.UUID) error {
	for i, p := range s.records {
		if p.UserID == userID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return store.ErrPreferencesNotFound
}

func (s *fakePrefsStore) WithTx(tx *sql.Tx) store.PreferencesStore { return s }

// fakeReminderStore keeps reminders in memory with a conditional MarkSent,
// mirroring the real store's exactly-once transition.
type fakeReminderStore struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*domain.TaskReminder

	markCalls int
}

func newFakeReminderStore(reminders ...*domain.TaskReminder) *fakeReminderStore {
	s := &fakeReminderStore{reminders: make(map[uuid.UUID]*domain.TaskReminder)}
	for _, r := range reminders {
		s.reminders[r.ID] = r
	}
	return s
}

func (s *fakeReminderStore) Create(ctx context.Context, reminder *domain.TaskReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[reminder.ID] = reminder
	return nil
}

func (s *fakeReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, store.ErrReminderNotFound
	}
	return r, nil
}

func (s *fakeReminderStore) ListPendingByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.TaskReminder
	for _, r := range s.reminders {
		if r.TaskID == taskID && !r.Sent {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReminderStore) ListDue(ctx context.Context, at time.Time) ([]*domain.TaskReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.TaskReminder
	for _, r := range s.reminders {
		if !r.Sent && !r.ReminderTime.After(at) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReminderStore) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls++
	r, ok := s.reminders[id]
	if !ok || r.Sent {
		return false, nil
	}
	r.Sent = true
	return true, nil
}

func (s *fakeReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return store.ErrReminderNotFound
	}
	delete(s.reminders, id)
	return nil
}

func (s *fakeReminderStore) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.reminders {
		if r.Sent && r.ReminderTime.Before(cutoff) {
			delete(s.reminders, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeReminderStore) WithTx(tx *sql.Tx) store.TaskReminderStore { return s }
