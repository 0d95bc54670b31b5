package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/product/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) seed(qty int) *models.Product {
	branch := id.NewBranchID()
	p := &models.Product{ID: id.NewProductID(), Name: "Widget", Quantity: qty, CurrentBranch: &branch}
	s.Require().NoError(s.store.Save(s.ctx, p))
	return p
}

func (s *InMemoryStoreSuite) TestPartialUpdate() {
	p := s.seed(10)

	s.Run("quantity only leaves branch alone", func() {
		qty := 6
		s.Require().NoError(s.store.UpdateQuantityAndBranch(s.ctx, p.ID, models.Update{Quantity: &qty}))
		got, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(6, got.Quantity)
		s.Equal(*p.CurrentBranch, *got.CurrentBranch)
	})

	s.Run("branch only leaves quantity alone", func() {
		dest := id.NewBranchID()
		s.Require().NoError(s.store.UpdateQuantityAndBranch(s.ctx, p.ID, models.Update{CurrentBranch: &dest}))
		got, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(6, got.Quantity)
		s.Equal(dest, *got.CurrentBranch)
	})
}

func (s *InMemoryStoreSuite) TestRejectsNegativeQuantity() {
	p := s.seed(1)
	qty := -1
	err := s.store.UpdateQuantityAndBranch(s.ctx, p.ID, models.Update{Quantity: &qty})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *InMemoryStoreSuite) TestUnknownProduct() {
	_, err := s.store.FindByID(s.ctx, id.NewProductID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	qty := 1
	s.ErrorIs(s.store.UpdateQuantityAndBranch(s.ctx, id.NewProductID(), models.Update{Quantity: &qty}), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFindByIDs() {
	p := s.seed(3)
	found, err := s.store.FindByIDs(s.ctx, []id.ProductID{p.ID, id.NewProductID()})
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Equal("Widget", found[p.ID].Name)
}
