package cache

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current time; injected for deterministic TTL tests.
type Clock func() time.Time

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

// InMemory is the in-process Backend. It serves as the failover target when
// Redis is unreachable and as the only backend in tests and single-node
// development.
type InMemory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	// tags indexes tag -> set of keys registered under it.
	tags  map[string]map[string]struct{}
	clock Clock
}

// InMemoryOption configures an InMemory backend.
type InMemoryOption func(*InMemory)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(b *InMemory) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// NewInMemory constructs an empty in-process cache backend.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	b := &InMemory{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *InMemory) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.After(b.clock()) {
		b.removeLocked(key, entry)
		return nil, false, nil
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (b *InMemory) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Replace any previous entry wholesale; entries are never partially
	// updated.
	if old, ok := b.entries[key]; ok {
		b.removeLocked(key, old)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	b.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: b.clock().Add(ttl),
		tags:      append([]string(nil), tags...),
	}
	for _, tag := range tags {
		keys, ok := b.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			b.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (b *InMemory) InvalidateTag(_ context.Context, tag string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys, ok := b.tags[tag]
	if !ok {
		return 0, nil
	}
	removed := 0
	for key := range keys {
		if entry, exists := b.entries[key]; exists {
			b.removeLocked(key, entry)
			removed++
		}
	}
	delete(b.tags, tag)
	return removed, nil
}

// Len reports the number of live entries; expired-but-unswept entries count
// until their next Get.
func (b *InMemory) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// removeLocked deletes an entry and unregisters it from its tags.
// Must be called while holding b.mu.
func (b *InMemory) removeLocked(key string, entry memoryEntry) {
	delete(b.entries, key)
	for _, tag := range entry.tags {
		if keys, ok := b.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(b.tags, tag)
			}
		}
	}
}
