package store

import (
	"context"
	"sort"
	"sync"

	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
)

var ErrNotFound = sentinel.ErrNotFound

// InMemory stores transfer slips in a map.
type InMemory struct {
	mu    sync.RWMutex
	slips map[id.SlipID]models.Slip
}

func NewInMemory() *InMemory {
	return &InMemory{slips: make(map[id.SlipID]models.Slip)}
}

func (s *InMemory) Create(_ context.Context, slip *models.Slip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slips[slip.ID]; exists {
		return sentinel.ErrConflict
	}
	s.slips[slip.ID] = copySlip(slip)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, slipID id.SlipID) (*models.Slip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slip, ok := s.slips[slipID]
	if !ok {
		return nil, ErrNotFound
	}
	c := copySlip(&slip)
	return &c, nil
}

// FindByIDForUpdate is FindByID; InMemoryTx serializes writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, slipID id.SlipID) (*models.Slip, error) {
	return s.FindByID(ctx, slipID)
}

func (s *InMemory) Update(_ context.Context, slip *models.Slip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slips[slip.ID]; !exists {
		return ErrNotFound
	}
	s.slips[slip.ID] = copySlip(slip)
	return nil
}

// List returns matching slips newest first.
func (s *InMemory) List(_ context.Context, f models.Filter) ([]*models.Slip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Slip, 0)
	for _, slip := range s.slips {
		if !f.Matches(&slip) {
			continue
		}
		c := copySlip(&slip)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].HumanID > out[j].HumanID
	})
	return out, nil
}

func (s *InMemory) CountInTransit(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, slip := range s.slips {
		if slip.Status == models.StatusInTransit {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.slips))
	s.slips = make(map[id.SlipID]models.Slip)
	return n, nil
}

func copySlip(slip *models.Slip) models.Slip {
	c := *slip
	if slip.ReceivedBy != nil {
		v := *slip.ReceivedBy
		c.ReceivedBy = &v
	}
	if slip.ReceivedAt != nil {
		v := *slip.ReceivedAt
		c.ReceivedAt = &v
	}
	if slip.CancelledBy != nil {
		v := *slip.CancelledBy
		c.CancelledBy = &v
	}
	if slip.CancelledAt != nil {
		v := *slip.CancelledAt
		c.CancelledAt = &v
	}
	return c
}
