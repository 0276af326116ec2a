package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/listoapp/listo-api/internal/platform/logger"
)

// WorkerPool manages a pool of worker goroutines that process jobs from a
// queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	queue       QueueReader
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to
	// start. Zero or negative defaults to 1.
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{WorkerCount: 2}
}

// NewWorkerPool creates a new worker pool over the given queue.
func NewWorkerPool(queue QueueReader, config WorkerPoolConfig, log *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		log.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
	}
}

// Start launches the worker goroutines. They run until Stop is called or
// the queue is closed and drained.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", "worker_count", p.workerCount)

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals all workers to exit and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-p.ctx.Done():
			log.Debug("worker shutting down")
			return
		case job, ok := <-p.queue.Channel():
			if !ok {
				log.Debug("job channel closed, worker exiting")
				return
			}
			p.run(job, log)
		}
	}
}

// run executes one job inside a panic boundary so a misbehaving job never
// takes down the worker.
func (p *WorkerPool) run(job Job, log *slog.Logger) {
	log = log.With("job_id", job.ID(), "job_type", job.Type())

	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", "panic", r)
		}
	}()

	ctx := logger.WithLogger(p.ctx, log)
	if err := job.Execute(ctx); err != nil {
		log.Error("job failed", "error", err)
		return
	}
	log.Debug("job completed")
}
