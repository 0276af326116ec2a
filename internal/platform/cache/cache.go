// Package cache provides a Redis-backed read-through cache for API
// responses. Cache failures never surface to callers; every operation
// degrades to a miss so the database remains the source of truth.
package cache

import (
	"context"
	"time"
)

// TTLs per entity family. Task data changes most often and expires first.
const (
	TTLTasks   = 15 * time.Minute
	TTLLists   = 20 * time.Minute
	TTLUsers   = 30 * time.Minute
	TTLDefault = 10 * time.Minute
)

// Cache defines the operations the service layer uses to cache query
// results. Values are JSON-encoded before storage.
type Cache interface {
	// Get loads the value stored under key into dest. Returns false on a
	// miss or any backend failure.
	Get(ctx context.Context, key string, dest interface{}) bool

	// Set stores value under key for the given TTL. Failures are logged
	// and swallowed.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)

	// Delete removes one or more keys.
	Delete(ctx context.Context, keys ...string)

	// DeletePattern removes every key matching a glob pattern, e.g.
	// "tasks:user:123:*" after a task write.
	DeletePattern(ctx context.Context, pattern string)

	// Flush clears the entire cache. Used by the maintenance job.
	Flush(ctx context.Context)
}

// NoopCache satisfies Cache without storing anything. Used when caching is
// disabled in configuration.
type NoopCache struct{}

// NewNoopCache creates a cache that never hits.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

var _ Cache = (*NoopCache)(nil)

func (NoopCache) Get(ctx context.Context, key string, dest interface{}) bool { return false }

func (NoopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {}

func (NoopCache) Delete(ctx context.Context, keys ...string) {}

func (NoopCache) DeletePattern(ctx context.Context, pattern string) {}

func (NoopCache) Flush(ctx context.Context) {}
