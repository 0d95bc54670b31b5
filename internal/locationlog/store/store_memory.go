package store

import (
	"context"
	"sort"
	"sync"

	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
)

// InMemory is an append-only slice of log rows.
type InMemory struct {
	mu      sync.RWMutex
	entries []models.Entry
	seq     int64
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AppendLocked(e)
	return nil
}

// Lock and Unlock hold the write lock across a multi-store commit. Only
// AppendLocked may be called in between.
func (s *InMemory) Lock()   { s.mu.Lock() }
func (s *InMemory) Unlock() { s.mu.Unlock() }

// AppendLocked assigns the next sequence number to e and stores it.
func (s *InMemory) AppendLocked(e *models.Entry) {
	s.seq++
	e.Seq = s.seq
	s.entries = append(s.entries, *e)
}

// Query returns matching rows newest first.
func (s *InMemory) Query(_ context.Context, f models.Filter) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for i := range s.entries {
		if !f.Matches(&s.entries[i]) {
			continue
		}
		e := s.entries[i]
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *InMemory) DeleteByProduct(_ context.Context, productID id.ProductID) (int64, error) {
	return s.deleteWhere(func(e *models.Entry) bool { return e.ProductID == productID }), nil
}

// DeleteTransferEntries removes every row that references a transfer slip.
func (s *InMemory) DeleteTransferEntries(_ context.Context) (int64, error) {
	return s.deleteWhere(func(e *models.Entry) bool { return e.TransferSlipID != nil }), nil
}

func (s *InMemory) deleteWhere(match func(*models.Entry) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var deleted int64
	for i := range s.entries {
		if match(&s.entries[i]) {
			deleted++
			continue
		}
		kept = append(kept, s.entries[i])
	}
	s.entries = kept
	return deleted
}
