package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Coordinator is the application-facing entry point to the cache. Read paths
// go through GetOrLoad; mutations call Invalidate with the tags they touched.
//
// Cache trouble never surfaces to callers. A backend error on read is a miss,
// a backend error on write or invalidation is logged and swallowed, and a
// disabled Coordinator degenerates to calling the loader directly.
type Coordinator struct {
	backend    Backend
	enabled    bool
	defaultTTL time.Duration
	logger     *slog.Logger

	onHit        func()
	onMiss       func()
	onInvalidate func()
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the logger for swallowed backend errors.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCounters registers hooks invoked on cache hits, misses, and tag
// invalidations.
func WithCounters(onHit, onMiss, onInvalidate func()) CoordinatorOption {
	return func(c *Coordinator) {
		if onHit != nil {
			c.onHit = onHit
		}
		if onMiss != nil {
			c.onMiss = onMiss
		}
		if onInvalidate != nil {
			c.onInvalidate = onInvalidate
		}
	}
}

// NewCoordinator constructs a Coordinator over backend. A disabled Coordinator
// (enabled=false) keeps the same API but bypasses the backend entirely.
func NewCoordinator(backend Backend, enabled bool, defaultTTL time.Duration, opts ...CoordinatorOption) *Coordinator {
	noop := func() {}
	c := &Coordinator{
		backend:      backend,
		enabled:      enabled && backend != nil,
		defaultTTL:   defaultTTL,
		logger:       slog.Default(),
		onHit:        noop,
		onMiss:       noop,
		onInvalidate: noop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether reads and writes reach the backend.
func (c *Coordinator) Enabled() bool {
	return c != nil && c.enabled
}

// DefaultTTL returns the TTL applied when callers pass zero.
func (c *Coordinator) DefaultTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.defaultTTL
}

// Invalidate removes every entry registered under each tag. Errors are logged
// and swallowed; a failed invalidation leaves entries to expire by TTL.
func (c *Coordinator) Invalidate(ctx context.Context, tags ...string) {
	if !c.Enabled() {
		return
	}
	for _, tag := range tags {
		if _, err := c.backend.InvalidateTag(ctx, tag); err != nil {
			c.logger.Warn("cache invalidation failed", "tag", tag, "error", err)
			continue
		}
		c.onInvalidate()
	}
}

// GetOrLoad returns the value cached under key, or calls load and caches the
// result under key with ttl and tags. Concurrent misses for the same key each
// call load; entries here are cheap single-row projections and a duplicate
// load is harmless.
//
// A loader error is returned as-is and nothing is cached. Every cache-side
// error is treated as a miss or swallowed.
func GetOrLoad[T any](ctx context.Context, c *Coordinator, key string, ttl time.Duration, tags []string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if !c.Enabled() {
		return load(ctx)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	raw, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else if found {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			c.onHit()
			return value, nil
		}
		// Undecodable entry: drop through to the loader and overwrite it.
		c.logger.Warn("cache entry undecodable", "key", key)
	}
	c.onMiss()

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	raw, err = json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return value, nil
	}
	if err := c.backend.Set(ctx, key, raw, ttl, tags); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}
