package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stocktrail/internal/staff/models"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
)

var ErrNotFound = sentinel.ErrNotFound

// InMemory is a map-backed staff store.
type InMemory struct {
	mu    sync.RWMutex
	staff map[id.StaffID]models.Staff
}

func NewInMemory() *InMemory {
	return &InMemory{staff: make(map[id.StaffID]models.Staff)}
}

func (s *InMemory) Create(_ context.Context, member *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staff[member.ID]; exists {
		return sentinel.ErrConflict
	}
	s.staff[member.ID] = copyStaff(member)
	return nil
}

func (s *InMemory) Update(_ context.Context, member *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staff[member.ID]; !exists {
		return ErrNotFound
	}
	s.staff[member.ID] = copyStaff(member)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, staffID id.StaffID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.staff[staffID]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyStaff(&m)
	return &out, nil
}

func (s *InMemory) FindByIDs(_ context.Context, ids []id.StaffID) (map[id.StaffID]*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.StaffID]*models.Staff, len(ids))
	for _, staffID := range ids {
		if m, ok := s.staff[staffID]; ok {
			c := copyStaff(&m)
			out[staffID] = &c
		}
	}
	return out, nil
}

func (s *InMemory) ListActive(_ context.Context) ([]*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSorted(func(m *models.Staff) bool { return true }), nil
}

func (s *InMemory) FindActiveByBranch(_ context.Context, branchID id.BranchID) ([]*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSorted(func(m *models.Staff) bool { return m.AssignedTo(branchID) }), nil
}

// filterSorted must be called with the read lock held.
func (s *InMemory) filterSorted(keep func(*models.Staff) bool) []*models.Staff {
	out := make([]*models.Staff, 0)
	for _, m := range s.staff {
		if !m.IsActive() || !keep(&m) {
			continue
		}
		c := copyStaff(&m)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func copyStaff(m *models.Staff) models.Staff {
	c := *m
	if m.BranchID != nil {
		b := *m.BranchID
		c.BranchID = &b
	}
	if m.DeletedAt != nil {
		d := *m.DeletedAt
		c.DeletedAt = &d
	}
	return c
}
