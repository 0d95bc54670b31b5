package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/branch/models"
	id "stocktrail/pkg/domain"
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

func (s *InMemoryStoreSuite) newBranch(name string) *models.Branch {
	b, err := models.NewBranch(id.NewBranchID(), name, models.Address{City: "Lisbon"}, time.Now())
	s.Require().NoError(err)
	return b
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	s.Run("finds created branch", func() {
		b := s.newBranch("Central")
		s.Require().NoError(s.store.Create(s.ctx, b))

		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal("Central", found.Name)
		s.Equal("Lisbon", found.City)
	})

	s.Run("rejects duplicate id", func() {
		b := s.newBranch("Dup")
		s.Require().NoError(s.store.Create(s.ctx, b))
		s.ErrorIs(s.store.Create(s.ctx, b), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewBranchID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned records are copies", func() {
		b := s.newBranch("Copy")
		s.Require().NoError(s.store.Create(s.ctx, b))
		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		found.Name = "mutated"

		again, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal("Copy", again.Name)
	})
}

func (s *InMemoryStoreSuite) TestListActive() {
	zeta := s.newBranch("zeta")
	alpha := s.newBranch("Alpha")
	gone := s.newBranch("Beta")
	s.Require().NoError(gone.SoftDelete(time.Now()))
	for _, b := range []*models.Branch{zeta, alpha, gone} {
		s.Require().NoError(s.store.Create(s.ctx, b))
	}

	list, err := s.store.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Alpha", list[0].Name)
	s.Equal("zeta", list[1].Name)
}

func (s *InMemoryStoreSuite) TestFindByIDsIncludesDeleted() {
	live := s.newBranch("Live")
	gone := s.newBranch("Gone")
	s.Require().NoError(gone.SoftDelete(time.Now()))
	s.Require().NoError(s.store.Create(s.ctx, live))
	s.Require().NoError(s.store.Create(s.ctx, gone))

	found, err := s.store.FindByIDs(s.ctx, []id.BranchID{live.ID, gone.ID, id.NewBranchID()})
	s.Require().NoError(err)
	s.Len(found, 2)
	s.Equal("Gone", found[gone.ID].Name)
}

func (s *InMemoryStoreSuite) TestUpdateUnknown() {
	err := s.store.Update(s.ctx, s.newBranch("Nowhere"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
