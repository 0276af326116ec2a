// Package jobs provides a small in-process background job system: a
// buffered queue feeding a pool of worker goroutines. The API handlers use
// it to push outbound email off the request path.
package jobs

import (
	"context"

	"github.com/google/uuid"
)

// Job represents a unit of background work.
type Job interface {
	// ID returns the job's unique identifier.
	ID() uuid.UUID

	// Type returns the job type identifier, used in logs.
	Type() string

	// Execute runs the job logic.
	Execute(ctx context.Context) error
}

// QueueReader provides read-only access to the job channel, allowing
// workers to consume jobs without the ability to enqueue.
type QueueReader interface {
	// Channel returns a read-only channel for consuming jobs.
	Channel() <-chan Job
}

// QueueWriter provides write access to the queue, allowing services to
// enqueue jobs for processing.
type QueueWriter interface {
	// Enqueue adds a job to the queue. Returns an error if the queue is
	// full or closed.
	Enqueue(job Job) error
}
