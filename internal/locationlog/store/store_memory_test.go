package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
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

func (s *InMemoryStoreSuite) appendEntry(productID id.ProductID, slipID *id.SlipID, reason models.Reason, at time.Time) *models.Entry {
	e := &models.Entry{
		ID:             id.NewLogEntryID(),
		ProductID:      productID,
		Quantity:       1,
		TransferSlipID: slipID,
		ChangedBy:      id.NewStaffID(),
		Reason:         reason,
		CreatedAt:      at,
	}
	s.Require().NoError(s.store.Append(s.ctx, e))
	return e
}

func (s *InMemoryStoreSuite) TestNewestFirstWithSequenceTiebreak() {
	product := id.NewProductID()
	at := time.Now()
	first := s.appendEntry(product, nil, models.ReasonTransferInitiated, at)
	second := s.appendEntry(product, nil, models.ReasonTransferComplete, at)
	older := s.appendEntry(product, nil, models.ReasonTransferInitiated, at.Add(-time.Hour))

	got, err := s.store.Query(s.ctx, models.Filter{ProductID: &product})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(second.ID, got[0].ID)
	s.Equal(first.ID, got[1].ID)
	s.Equal(older.ID, got[2].ID)
}

func (s *InMemoryStoreSuite) TestFilterAndLimit() {
	a, b := id.NewProductID(), id.NewProductID()
	slip := id.NewSlipID()
	now := time.Now()
	s.appendEntry(a, &slip, models.ReasonTransferInitiated, now)
	s.appendEntry(a, nil, models.ReasonTransferComplete, now.Add(time.Second))
	s.appendEntry(b, nil, models.ReasonTransferInitiated, now.Add(2*time.Second))

	bySlip, err := s.store.Query(s.ctx, models.Filter{TransferSlipID: &slip})
	s.Require().NoError(err)
	s.Len(bySlip, 1)

	limited, err := s.store.Query(s.ctx, models.Filter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(limited, 2)
	s.Equal(b, limited[0].ProductID)
}

func (s *InMemoryStoreSuite) TestDeletes() {
	a, b := id.NewProductID(), id.NewProductID()
	slip := id.NewSlipID()
	now := time.Now()
	s.appendEntry(a, &slip, models.ReasonTransferInitiated, now)
	s.appendEntry(a, nil, models.ReasonTransferComplete, now)
	s.appendEntry(b, &slip, models.ReasonTransferInitiated, now)

	n, err := s.store.DeleteTransferEntries(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = s.store.DeleteByProduct(s.ctx, a)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	rest, err := s.store.Query(s.ctx, models.Filter{})
	s.Require().NoError(err)
	s.Empty(rest)
}
