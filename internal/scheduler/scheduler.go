// Package scheduler runs the background jobs on cron ticks: the two
// reminder passes every minute, the schedule gate recomputation, and the
// nightly maintenance sweep.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/listoapp/listo-api/internal/platform/logger"
	"github.com/listoapp/listo-api/internal/platform/metrics"
)

// Scheduler wraps a cron runner. Every registered job is chained with
// SkipIfStillRunning, so a slow pass is never overlapped by the next fire
// of the same job; that tick is skipped instead.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler in the given location.
func New(loc *time.Location, log *slog.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelError))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
		),
		logger: log,
	}
}

// AddJob registers a named job under a cron spec. The job receives a
// context carrying a logger tagged with the job name, and its duration is
// recorded per run.
func (s *Scheduler) AddJob(spec, name string, job func(ctx context.Context) error) (cron.EntryID, error) {
	log := s.logger.With("job", name)

	return s.cron.AddFunc(spec, func() {
		started := time.Now()
		ctx := logger.WithLogger(context.Background(), log)

		if err := job(ctx); err != nil {
			log.Error("scheduled job failed", "error", err)
		}
		metrics.ObserveJob(name, started)
	})
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the runner and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
