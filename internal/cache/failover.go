package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"docroute/pkg/platform/circuit"
)

// probeEvery controls how many operations run against the fallback between
// probes of an unhealthy primary.
const probeEvery = 16

// Failover routes cache operations to a primary backend (Redis) and degrades
// to an in-process fallback when the primary's circuit breaker opens. While
// the breaker is open, one in every probeEvery operations is attempted against
// the primary; enough successful probes close the breaker and restore it.
//
// Invalidations are applied to both backends. Entries written to the fallback
// during an outage would otherwise survive as stale reads after recovery.
type Failover struct {
	primary    Backend
	fallback   Backend
	breaker    *circuit.Breaker
	logger     *slog.Logger
	ops        atomic.Uint64
	onFallback func()
}

// FailoverOption configures a Failover backend.
type FailoverOption func(*Failover)

// WithFailoverLogger sets the logger for breaker transitions.
func WithFailoverLogger(logger *slog.Logger) FailoverOption {
	return func(f *Failover) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(breaker *circuit.Breaker) FailoverOption {
	return func(f *Failover) {
		if breaker != nil {
			f.breaker = breaker
		}
	}
}

// WithFallbackCounter registers a hook invoked once per operation served by
// the fallback backend.
func WithFallbackCounter(fn func()) FailoverOption {
	return func(f *Failover) {
		if fn != nil {
			f.onFallback = fn
		}
	}
}

// NewFailover wraps primary and fallback into a single Backend.
func NewFailover(primary, fallback Backend, opts ...FailoverOption) *Failover {
	f := &Failover{
		primary:    primary,
		fallback:   fallback,
		breaker:    circuit.New("cache-redis", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		logger:     slog.Default(),
		onFallback: func() {},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Failover) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.usePrimary() {
		value, found, err := f.primary.Get(ctx, key)
		if err == nil {
			f.recordSuccess()
			return value, found, nil
		}
		f.recordFailure(err)
	}
	f.onFallback()
	return f.fallback.Get(ctx, key)
}

func (f *Failover) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	if f.usePrimary() {
		err := f.primary.Set(ctx, key, value, ttl, tags)
		if err == nil {
			f.recordSuccess()
			return nil
		}
		f.recordFailure(err)
	}
	f.onFallback()
	return f.fallback.Set(ctx, key, value, ttl, tags)
}

func (f *Failover) InvalidateTag(ctx context.Context, tag string) (int, error) {
	// The fallback is always invalidated, healthy primary or not.
	removed, fallbackErr := f.fallback.InvalidateTag(ctx, tag)

	if f.usePrimary() {
		n, err := f.primary.InvalidateTag(ctx, tag)
		if err == nil {
			f.recordSuccess()
			return n + removed, fallbackErr
		}
		f.recordFailure(err)
	}
	return removed, fallbackErr
}

// usePrimary reports whether this operation should attempt the primary:
// always while the breaker is closed, every probeEvery-th operation while open.
func (f *Failover) usePrimary() bool {
	if !f.breaker.IsOpen() {
		return true
	}
	return f.ops.Add(1)%probeEvery == 0
}

func (f *Failover) recordSuccess() {
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.Info("cache primary recovered, resuming", "breaker", f.breaker.Name())
	}
}

func (f *Failover) recordFailure(err error) {
	if _, change := f.breaker.RecordFailure(); change.Opened {
		f.logger.Warn("cache primary unavailable, degrading to in-process store",
			"breaker", f.breaker.Name(), "error", err)
	}
}
