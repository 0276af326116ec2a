package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/jobs"
	"github.com/listoapp/listo-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUser(t *testing.T, email string) *domain.User {
	t.Helper()
	return &domain.User{
		ID:             uuid.New(),
		Username:       "someone",
		Email:          email,
		HashedPassword: "hashed:correct horse battery staple",
		Timezone:       "UTC",
	}
}

// fakeUserStore serves users from a map.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
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

// fakeTaskStore keeps tasks in a map.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskStore(tasks ...*domain.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	return s
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

func (s *fakeTaskStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *fakeTaskStore) ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Task, error) {
	return nil, nil
}

func (s *fakeTaskStore) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Task, error) {
	return nil, nil
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

// fakeListStore keeps task lists in a map.
type fakeListStore struct {
	lists map[uuid.UUID]*domain.TaskList
}

func newFakeListStore(lists ...*domain.TaskList) *fakeListStore {
	s := &fakeListStore{lists: make(map[uuid.UUID]*domain.TaskList)}
	for _, l := range lists {
		s.lists[l.ID] = l
	}
	return s
}

func (s *fakeListStore) Create(ctx context.Context, list *domain.TaskList) error {
	s.lists[list.ID] = list
	return nil
}

func (s *fakeListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error) {
	l, ok := s.lists[id]
	if !ok {
		return nil, store.ErrListNotFound
	}
	return l, nil
}

func (s *fakeListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskList, error) {
	var out []*domain.TaskList
	for _, l := range s.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeListStore) Update(ctx context.Context, list *domain.TaskList) error {
	if _, ok := s.lists[list.ID]; !ok {
		return store.ErrListNotFound
	}
	s.lists[list.ID] = list
	return nil
}

func (s *fakeListStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.lists[id]; !ok {
		return store.ErrListNotFound
	}
	delete(s.lists, id)
	return nil
}

func (s *fakeListStore) WithTx(tx *sql.Tx) store.TaskListStore { return s }

// fakePrefsStore upserts on user ID like the real store.
type fakePrefsStore struct {
	records map[uuid.UUID]*domain.NotificationPreferences
}

func newFakePrefsStore() *fakePrefsStore {
	return &fakePrefsStore{records: make(map[uuid.UUID]*domain.NotificationPreferences)}
}

func (s *fakePrefsStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	p, ok := s.records[userID]
	if !ok {
		return nil, store.ErrPreferencesNotFound
	}
	return p, nil
}

func (s *fakePrefsStore) Save(ctx context.Context, prefs *domain.NotificationPreferences) error {
	if existing, ok := s.records[prefs.UserID]; ok {
		prefs.ID = existing.ID
		prefs.CreatedAt = existing.CreatedAt
	}
	s.records[prefs.UserID] = prefs
	return nil
}

func (s *fakePrefsStore) ListAll(ctx context.Context) ([]*domain.NotificationPreferences, error) {
	var out []*domain.NotificationPreferences
	for _, p := range s.records {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePrefsStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, ok := s.records[userID]; !ok {
		return store.ErrPreferencesNotFound
	}
	delete(s.records, userID)
	return nil
}

func (s *fakePrefsStore) WithTx(tx *sql.Tx) store.PreferencesStore { return s }

// fakeResetStore keeps reset tokens by hash.
type fakeResetStore struct {
	tokens map[string]*store.PasswordResetToken
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{tokens: make(map[string]*store.PasswordResetToken)}
}

func (s *fakeResetStore) Create(ctx context.Context, token *store.PasswordResetToken) error {
	for hash, existing := range s.tokens {
		if existing.UserID == token.UserID {
			delete(s.tokens, hash)
		}
	}
	s.tokens[token.TokenHash] = token
	return nil
}

func (s *fakeResetStore) GetByHash(ctx context.Context, tokenHash string) (*store.PasswordResetToken, error) {
	token, ok := s.tokens[tokenHash]
	if !ok {
		return nil, store.ErrResetTokenNotFound
	}
	return token, nil
}

func (s *fakeResetStore) Delete(ctx context.Context, id uuid.UUID) error {
	for hash, token := range s.tokens {
		if token.ID == id {
			delete(s.tokens, hash)
			return nil
		}
	}
	return store.ErrResetTokenNotFound
}

func (s *fakeResetStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for hash, token := range s.tokens {
		if token.ExpiresAt.Before(before) {
			delete(s.tokens, hash)
			n++
		}
	}
	return n, nil
}

func (s *fakeResetStore) WithTx(tx *sql.Tx) store.PasswordResetStore { return s }

// spyCache JSON-encodes entries like the real cache and records deletions
// so tests can assert on invalidation.
type spyCache struct {
	mu sync.Mutex

	entries         map[string][]byte
	deleted         []string
	deletedPatterns []string
	flushed         bool
}

func newSpyCache() *spyCache {
	return &spyCache{entries: make(map[string][]byte)}
}

func (c *spyCache) Get(ctx context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *spyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = raw
}

func (c *spyCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
}

func (c *spyCache) DeletePattern(ctx context.Context, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedPatterns = append(c.deletedPatterns, pattern)
}

func (c *spyCache) Flush(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushed = true
	c.entries = make(map[string][]byte)
}

// fakeQueue records enqueued jobs without running them.
type fakeQueue struct {
	mu       sync.Mutex
	enqueued []jobs.Job
	err      error
}

func (q *fakeQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *fakeQueue) jobTypes() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []string
	for _, j := range q.enqueued {
		out = append(out, j.Type())
	}
	return out
}

// plainHasher hashes by prefixing, making assertions readable.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
