package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"docroute/internal/document/models"
	id "docroute/pkg/domain"
	"docroute/pkg/platform/sentinel"
)

// Clock supplies timestamps; injected for deterministic tests.
type Clock func() time.Time

type slotKey struct {
	doc   id.DocumentID
	index int
}

// InMemory is a mutex-guarded Store for tests and single-node development.
// The status check and write in UpdateDocumentStatus happen under one lock,
// matching the conditional-UPDATE atomicity of the Postgres implementation.
type InMemory struct {
	mu      sync.RWMutex
	docs    map[id.DocumentID]*models.Document
	slots   map[slotKey]*models.SupplementaryFile
	history map[id.DocumentID][]*models.StatusHistoryEntry
	clock   Clock
}

// InMemoryOption configures an InMemory store.
type InMemoryOption func(*InMemory)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock Clock) InMemoryOption {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		docs:    make(map[id.DocumentID]*models.Document),
		slots:   make(map[slotKey]*models.SupplementaryFile),
		history: make(map[id.DocumentID][]*models.StatusHistoryEntry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) CreateDocument(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *doc
	s.docs[doc.ID] = &cp
	return nil
}

func (s *InMemory) GetDocument(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *InMemory) ListByBranch(_ context.Context, branch id.BranchCode, filter ListFilter) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.BranchCode != branch {
			continue
		}
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		if filter.Period != "" && doc.Period != filter.Period {
			continue
		}
		cp := *doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) UpdateDocumentStatus(_ context.Context, docID id.DocumentID, expected, next models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if doc.Status != expected {
		return sentinel.ErrConflict
	}
	doc.Status = next
	doc.UpdatedAt = s.clock()
	return nil
}

func (s *InMemory) ReassignBranch(_ context.Context, docID id.DocumentID, to id.BranchCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return sentinel.ErrNotFound
	}
	doc.BranchCode = to
	doc.UpdatedAt = s.clock()
	return nil
}

func (s *InMemory) AppendHistory(_ context.Context, entry *models.StatusHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.history[entry.DocumentID] = append(s.history[entry.DocumentID], &cp)
	return nil
}

func (s *InMemory) ListHistory(_ context.Context, docID id.DocumentID) ([]*models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.history[docID]
	out := make([]*models.StatusHistoryEntry, 0, len(entries))
	for _, e := range entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) GetSupplementarySlot(_ context.Context, docID id.DocumentID, slotIndex int) (*models.SupplementaryFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[slotKey{doc: docID, index: slotIndex}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *slot
	return &cp, nil
}

func (s *InMemory) ListSupplementarySlots(_ context.Context, docID id.DocumentID) ([]*models.SupplementaryFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.SupplementaryFile
	for key, slot := range s.slots {
		if key.doc == docID {
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotIndex < out[j].SlotIndex })
	return out, nil
}

func (s *InMemory) SaveSupplementarySlot(_ context.Context, file *models.SupplementaryFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *file
	s.slots[slotKey{doc: file.DocumentID, index: file.SlotIndex}] = &cp
	return nil
}
