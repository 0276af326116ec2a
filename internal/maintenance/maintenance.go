// Package maintenance implements the nightly housekeeping sweep: purging
// delivered reminders past their retention window, dropping expired
// password reset tokens, and flushing the response cache.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/store"
)

// Service runs the periodic cleanup pass.
type Service struct {
	reminders   store.TaskReminderStore
	resetTokens store.PasswordResetStore
	cache       cache.Cache
	retention   time.Duration

	timeFunc func() time.Time
}

// NewService builds the maintenance sweep from configuration.
func NewService(reminders store.TaskReminderStore, resetTokens store.PasswordResetStore, c cache.Cache, cfg config.MaintenanceConfig) *Service {
	retention := time.Duration(cfg.ReminderRetentionDays) * 24 * time.Hour
	return &Service{
		reminders:   reminders,
		resetTokens: resetTokens,
		cache:       c,
		retention:   retention,
		timeFunc:    time.Now,
	}
}

// WithTimeFunc overrides the clock. Test hook.
func (s *Service) WithTimeFunc(fn func() time.Time) *Service {
	s.timeFunc = fn
	return s
}

// Run executes one full sweep. Partial failures are reported but do not
// stop the remaining steps.
func (s *Service) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	var firstErr error

	purged, err := s.reminders.DeleteSentBefore(ctx, now.Add(-s.retention))
	if err != nil {
		firstErr = fmt.Errorf("failed to purge sent reminders: %w", err)
		log.Error("reminder purge failed", "error", err)
	}

	expired, err := s.resetTokens.DeleteExpired(ctx, now)
	if err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to purge expired reset tokens: %w", err)
		}
		log.Error("reset token purge failed", "error", err)
	}

	s.cache.Flush(ctx)

	log.Info("maintenance sweep finished",
		"reminders_purged", purged,
		"reset_tokens_purged", expired)

	return firstErr
}
