package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder captures activity events on behalf of domain logic. Record never
// returns an error: persistence failures are logged and counted, and with an
// async buffer a full inbox drops the event rather than block the caller.
type Recorder struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time

	// inbox is nil in synchronous mode.
	inbox     chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once

	onDropped func()
	onFailed  func()
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger for swallowed persistence errors.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorderClock sets the clock used to stamp events missing a timestamp.
func WithRecorderClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithAsyncBuffer switches the Recorder to asynchronous mode: Record enqueues
// onto a buffer of the given size drained by a background worker, and drops
// the event when the buffer is full.
func WithAsyncBuffer(size int) RecorderOption {
	return func(r *Recorder) {
		if size > 0 {
			r.inbox = make(chan Event, size)
		}
	}
}

// WithDropCounters registers hooks invoked when an event is dropped (full
// buffer) or its persistence fails.
func WithDropCounters(onDropped, onFailed func()) RecorderOption {
	return func(r *Recorder) {
		if onDropped != nil {
			r.onDropped = onDropped
		}
		if onFailed != nil {
			r.onFailed = onFailed
		}
	}
}

// NewRecorder constructs a Recorder over store. Synchronous unless
// WithAsyncBuffer is given; async Recorders must be Closed to drain.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	noop := func() {}
	r := &Recorder{
		store:     store,
		logger:    slog.Default(),
		clock:     time.Now,
		onDropped: noop,
		onFailed:  noop,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.inbox != nil {
		r.wg.Add(1)
		go r.run()
	}
	return r
}

// Record captures one event. Fire-and-forget: the caller's operation has
// already succeeded by the time this runs, so nothing here may fail it.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.clock()
	}
	if r.inbox == nil {
		r.append(ctx, event)
		return
	}
	select {
	case r.inbox <- event:
	default:
		r.onDropped()
		r.logger.Warn("activity buffer full, event dropped",
			"action", event.Action, "document_id", event.DocumentID)
	}
}

// Close stops the background worker after draining buffered events. No-op in
// synchronous mode.
func (r *Recorder) Close() {
	if r.inbox == nil {
		return
	}
	r.closeOnce.Do(func() {
		close(r.inbox)
	})
	r.wg.Wait()
}

// run drains the inbox until Close. Events buffered at shutdown are still
// persisted; the worker uses a background context since callers are gone.
func (r *Recorder) run() {
	defer r.wg.Done()
	for event := range r.inbox {
		r.append(context.Background(), event)
	}
}

func (r *Recorder) append(ctx context.Context, event Event) {
	if err := r.store.Append(ctx, event); err != nil {
		r.onFailed()
		r.logger.Warn("activity event not persisted",
			"action", event.Action, "document_id", event.DocumentID, "error", err)
	}
}
