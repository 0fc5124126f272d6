package store

import (
	"context"
	"sort"
	"sync"

	"docroute/internal/branch/models"
	id "docroute/pkg/domain"
	"docroute/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded branch directory for tests and development.
type InMemory struct {
	mu       sync.RWMutex
	branches map[id.BranchCode]*models.Branch
}

// NewInMemory constructs an empty in-memory branch store.
func NewInMemory() *InMemory {
	return &InMemory{branches: make(map[id.BranchCode]*models.Branch)}
}

func (s *InMemory) Create(_ context.Context, branch *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.branches[branch.Code]; exists {
		return sentinel.ErrConflict
	}
	cp := *branch
	s.branches[branch.Code] = &cp
	return nil
}

func (s *InMemory) FindByCode(_ context.Context, code id.BranchCode) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	branch, ok := s.branches[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *branch
	return &cp, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		cp := *b
		out = append(out, &cp)
	}
	sortByCode(out)
	return out, nil
}

func (s *InMemory) ListByRegion(_ context.Context, regionCode int) ([]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Branch
	for _, b := range s.branches {
		if b.RegionCode == regionCode {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortByCode(out)
	return out, nil
}

func sortByCode(branches []*models.Branch) {
	sort.Slice(branches, func(i, j int) bool { return branches[i].Code < branches[j].Code })
}
