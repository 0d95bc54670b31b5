package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
)

type SlipStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func TestSlipStoreSuite(t *testing.T) {
	suite.Run(t, new(SlipStoreSuite))
}

func (s *SlipStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *SlipStoreSuite) create(from id.BranchID, at time.Time) *models.Slip {
	slip, err := models.NewSlip(id.NewSlipID(), models.NewHumanID(at), id.NewProductID(), "Bench", 1,
		from, id.NewBranchID(), id.NewStaffID(), "", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, slip))
	return slip
}

func (s *SlipStoreSuite) TestListNewestFirstWithFilters() {
	from := id.NewBranchID()
	now := time.Now()
	older := s.create(from, now.Add(-time.Hour))
	newer := s.create(from, now)
	s.create(id.NewBranchID(), now.Add(-time.Minute))

	got, err := s.store.List(s.ctx, models.Filter{FromBranch: &from})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(newer.ID, got[0].ID)
	s.Equal(older.ID, got[1].ID)

	s.Require().NoError(older.Complete(id.NewStaffID(), now))
	s.Require().NoError(s.store.Update(s.ctx, older))
	completed := models.StatusCompleted
	got, err = s.store.List(s.ctx, models.Filter{Status: &completed})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(older.ID, got[0].ID)

	n, err := s.store.CountInTransit(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *SlipStoreSuite) TestStoredSlipsAreCopies() {
	slip := s.create(id.NewBranchID(), time.Now())
	s.Require().NoError(slip.Complete(id.NewStaffID(), time.Now()))

	stored, err := s.store.FindByID(s.ctx, slip.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInTransit, stored.Status)
}

func (s *SlipStoreSuite) TestDeleteAll() {
	s.create(id.NewBranchID(), time.Now())
	s.create(id.NewBranchID(), time.Now())
	n, err := s.store.DeleteAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	_, err = s.store.FindByID(s.ctx, id.NewSlipID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
