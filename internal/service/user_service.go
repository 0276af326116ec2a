package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/jobs"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/service/auth"
	"github.com/listoapp/listo-api/internal/store"
)

// UserService provides account operations: registration, authentication,
// profile reads and updates.
type UserService interface {
	// Register creates a new account and enqueues the welcome email.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate verifies credentials and returns the matching user.
	// Returns ErrInvalidCredentials for both unknown email and bad password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetProfile retrieves a user by ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile changes the user's contact email and timezone.
	UpdateProfile(ctx context.Context, userID uuid.UUID, email, timezone string) (*domain.User, error)

	// UpdateTimezone changes the user's IANA timezone.
	UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) (*domain.User, error)

	// UpdatePassword replaces the user's password with a freshly hashed one.
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	queue     jobs.QueueWriter
	mailer    mail.Mailer
	cache     cache.Cache
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	queue jobs.QueueWriter,
	mailer mail.Mailer,
	c cache.Cache,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		queue:     queue,
		mailer:    mailer,
		cache:     c,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a new account inside a transaction. The welcome email is
// pushed onto the job queue after commit so a full queue never fails the
// registration.
func (s *UserServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(jobs.NewWelcomeEmailJob(user, s.mailer)); err != nil {
		s.logger.Warn("failed to enqueue welcome email", "error", err, "user_id", user.ID)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate verifies credentials. The bcrypt comparison runs even when
// the email is unknown, keeping response timing uniform.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.verifier.Compare(dummyBcryptHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile retrieves a user, read-through cached.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	key := cache.UserKey(userID)

	var cached domain.User
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, user, cache.TTLUsers)
	return user, nil
}

// UpdateProfile changes email and timezone together. The email keeps its
// uniqueness guarantee through the store's duplicate mapping.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, email, timezone string) (*domain.User, error) {
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return nil, domain.ErrInvalidTimezone
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Email = strings.TrimSpace(email)
	user.Timezone = timezone
	user.UpdatedAt = time.Now().UTC()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.UserKey(userID))
	s.logger.Info("user profile updated", "user_id", userID)
	return user, nil
}

// UpdateTimezone validates the IANA name before persisting it.
func (s *UserServiceImpl) UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) (*domain.User, error) {
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return nil, domain.ErrInvalidTimezone
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Timezone = timezone
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.UserKey(userID))
	s.logger.Info("user timezone updated", "user_id", userID, "timezone", timezone)
	return user, nil
}

// UpdatePassword rehashes and stores a new password.
func (s *UserServiceImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Password = newPassword
	if err := user.Validate(); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.UserKey(userID))
	return nil
}

// dummyBcryptHash is a valid hash of an unguessable string, compared
// against when the email lookup misses so both failure paths cost a bcrypt
// verification.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
