package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stocktrail/internal/branch/models"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
)

// ErrNotFound is returned when a branch row does not exist.
var ErrNotFound = sentinel.ErrNotFound

// InMemory keeps branches in a map. Records are copied in and out so callers
// cannot mutate stored state.
type InMemory struct {
	mu       sync.RWMutex
	branches map[id.BranchID]models.Branch
}

func NewInMemory() *InMemory {
	return &InMemory{branches: make(map[id.BranchID]models.Branch)}
}

func (s *InMemory) Create(_ context.Context, branch *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.branches[branch.ID]; exists {
		return sentinel.ErrConflict
	}
	s.branches[branch.ID] = *branch
	return nil
}

func (s *InMemory) Update(_ context.Context, branch *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.branches[branch.ID]; !exists {
		return ErrNotFound
	}
	s.branches[branch.ID] = *branch
	return nil
}

// FindByID returns the branch including soft-deleted rows.
func (s *InMemory) FindByID(_ context.Context, branchID id.BranchID) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

// FindByIDs returns the branches that exist among ids, soft-deleted included.
func (s *InMemory) FindByIDs(_ context.Context, ids []id.BranchID) (map[id.BranchID]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.BranchID]*models.Branch, len(ids))
	for _, branchID := range ids {
		if b, ok := s.branches[branchID]; ok {
			out[branchID] = &b
		}
	}
	return out, nil
}

// ListActive returns live branches sorted by name.
func (s *InMemory) ListActive(_ context.Context) ([]*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		if !b.IsActive() {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
