package store

import (
	"context"
	"sync"
	"time"

	"stocktrail/internal/product/models"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
)

var ErrNotFound = sentinel.ErrNotFound

// InMemory holds products for single-process deployments and tests.
type InMemory struct {
	mu       sync.RWMutex
	products map[id.ProductID]models.Product
	now      func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{products: make(map[id.ProductID]models.Product), now: time.Now}
}

// Save inserts or replaces a product.
func (s *InMemory) Save(_ context.Context, p *models.Product) error {
	if err := (models.Update{Quantity: &p.Quantity}).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutLocked(p)
	return nil
}

// Lock and Unlock hold the write lock across a multi-store commit. Only
// PutLocked may be called in between.
func (s *InMemory) Lock()   { s.mu.Lock() }
func (s *InMemory) Unlock() { s.mu.Unlock() }

// PutLocked replaces p. The caller holds the lock and has validated p.
func (s *InMemory) PutLocked(p *models.Product) {
	s.products[p.ID] = copyProduct(*p)
}

func (s *InMemory) FindByID(_ context.Context, productID id.ProductID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	c := copyProduct(p)
	return &c, nil
}

// FindByIDForUpdate is FindByID; the in-memory transaction serializes writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	return s.FindByID(ctx, productID)
}

func (s *InMemory) FindByIDs(_ context.Context, ids []id.ProductID) (map[id.ProductID]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.ProductID]*models.Product, len(ids))
	for _, productID := range ids {
		if p, ok := s.products[productID]; ok {
			c := copyProduct(p)
			out[productID] = &c
		}
	}
	return out, nil
}

func (s *InMemory) UpdateQuantityAndBranch(_ context.Context, productID id.ProductID, u models.Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return ErrNotFound
	}
	s.products[productID] = u.Apply(p, s.now().UTC())
	return nil
}

func copyProduct(p models.Product) models.Product {
	if p.CurrentBranch != nil {
		b := *p.CurrentBranch
		p.CurrentBranch = &b
	}
	return p
}
