package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	logModels "stocktrail/internal/locationlog/models"
	logStore "stocktrail/internal/locationlog/store"
	productModels "stocktrail/internal/product/models"
	productStore "stocktrail/internal/product/store"
	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

type InMemoryTxSuite struct {
	suite.Suite
	ctx      context.Context
	products *productStore.InMemory
	slips    *InMemory
	log      *logStore.InMemory
	tx       *InMemoryTx
	product  *productModels.Product
}

func TestInMemoryTxSuite(t *testing.T) {
	suite.Run(t, new(InMemoryTxSuite))
}

func (s *InMemoryTxSuite) SetupTest() {
	s.ctx = context.Background()
	s.products = productStore.NewInMemory()
	s.slips = NewInMemory()
	s.log = logStore.NewInMemory()
	s.tx = NewInMemoryTx(s.products, s.slips, s.log, time.Second)
	s.product = &productModels.Product{ID: id.NewProductID(), Name: "Desk", Quantity: 10}
	s.Require().NoError(s.products.Save(s.ctx, s.product))
}

func (s *InMemoryTxSuite) newSlip() *models.Slip {
	now := time.Now()
	slip, err := models.NewSlip(id.NewSlipID(), models.NewHumanID(now), s.product.ID, s.product.Name, 3,
		id.NewBranchID(), id.NewBranchID(), id.NewStaffID(), "", now)
	s.Require().NoError(err)
	return slip
}

func (s *InMemoryTxSuite) decrementAndRecord(ctx context.Context, stores TxStores, slip *models.Slip) error {
	p, err := stores.Products.FindByIDForUpdate(ctx, s.product.ID)
	if err != nil {
		return err
	}
	qty := p.Quantity - slip.Quantity
	if err := stores.Products.UpdateQuantityAndBranch(ctx, p.ID, productModels.Update{Quantity: &qty}); err != nil {
		return err
	}
	if err := stores.Slips.Create(ctx, slip); err != nil {
		return err
	}
	return stores.Log.Append(ctx, &logModels.Entry{
		ID: id.NewLogEntryID(), ProductID: p.ID, Quantity: slip.Quantity,
		ChangedBy: slip.RequestedBy, Reason: logModels.ReasonTransferInitiated, CreatedAt: time.Now(),
	})
}

func (s *InMemoryTxSuite) quantity() int {
	p, err := s.products.FindByID(s.ctx, s.product.ID)
	s.Require().NoError(err)
	return p.Quantity
}

func (s *InMemoryTxSuite) TestCommitAppliesAllWrites() {
	slip := s.newSlip()
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context, stores TxStores) error {
		return s.decrementAndRecord(ctx, stores, slip)
	})
	s.Require().NoError(err)

	s.Equal(7, s.quantity())
	_, err = s.slips.FindByID(s.ctx, slip.ID)
	s.NoError(err)
	entries, err := s.log.Query(s.ctx, logModels.Filter{})
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *InMemoryTxSuite) TestStagedReadsSeeOwnWrites() {
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context, stores TxStores) error {
		qty := 4
		s.Require().NoError(stores.Products.UpdateQuantityAndBranch(ctx, s.product.ID, productModels.Update{Quantity: &qty}))
		p, err := stores.Products.FindByIDForUpdate(ctx, s.product.ID)
		s.Require().NoError(err)
		s.Equal(4, p.Quantity)
		s.Equal(10, s.quantity(), "base store is untouched before commit")
		return nil
	})
	s.Require().NoError(err)
	s.Equal(4, s.quantity())
}

func (s *InMemoryTxSuite) TestErrorDiscardsStagedWrites() {
	slip := s.newSlip()
	boom := dErrors.New(dErrors.CodeInsufficientQuantity, "insufficient quantity")
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context, stores TxStores) error {
		s.Require().NoError(s.decrementAndRecord(ctx, stores, slip))
		return boom
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientQuantity))

	s.Equal(10, s.quantity())
	_, err = s.slips.FindByID(s.ctx, slip.ID)
	s.ErrorIs(err, ErrNotFound)
	entries, err := s.log.Query(s.ctx, logModels.Filter{})
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *InMemoryTxSuite) TestDeadlineDiscardsStagedWrites() {
	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	slip := s.newSlip()

	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores TxStores) error {
		s.Require().NoError(s.decrementAndRecord(ctx, stores, slip))
		<-ctx.Done()
		return nil
	})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Equal(10, s.quantity())
}

func (s *InMemoryTxSuite) TestLockWaitHonoursDeadline() {
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = s.tx.RunInTx(s.ctx, func(context.Context, TxStores) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	err := s.tx.RunInTx(ctx, func(context.Context, TxStores) error {
		s.Fail("must not run while the lock is held")
		return nil
	})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *InMemoryTxSuite) TestConcurrentDecrementsNeverOversell() {
	const workers = 20
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.tx.RunInTx(s.ctx, func(ctx context.Context, stores TxStores) error {
				p, err := stores.Products.FindByIDForUpdate(ctx, s.product.ID)
				if err != nil {
					return err
				}
				if p.Quantity < 1 {
					return errors.New("sold out")
				}
				qty := p.Quantity - 1
				return stores.Products.UpdateQuantityAndBranch(ctx, p.ID, productModels.Update{Quantity: &qty})
			})
			if err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(10), succeeded.Load())
	s.Equal(0, s.quantity())
}

func (s *InMemoryTxSuite) TestExclusiveRunnerSharesTheLock() {
	var inside atomic.Bool
	err := s.tx.Exclusive().RunInTx(s.ctx, func(ctx context.Context) error {
		inside.Store(true)
		n, err := s.slips.DeleteAll(ctx)
		s.Equal(int64(0), n)
		return err
	})
	s.Require().NoError(err)
	s.True(inside.Load())
}

func (s *InMemoryTxSuite) TestReadersNeverSeeAPartialCommit() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			slip := s.newSlip()
			s.NoError(s.tx.RunInTx(s.ctx, func(ctx context.Context, stores TxStores) error {
				return s.decrementAndRecord(ctx, stores, slip)
			}))
		}
		close(done)
	}()

	for {
		select {
		case <-done:
			wg.Wait()
			s.Equal(1, s.quantity())
			return
		default:
		}
		p, err := s.products.FindByID(s.ctx, s.product.ID)
		s.Require().NoError(err)
		moved := 10 - p.Quantity
		slips, err := s.slips.List(s.ctx, models.Filter{})
		s.Require().NoError(err)
		entries, err := s.log.Query(s.ctx, logModels.Filter{})
		s.Require().NoError(err)
		s.GreaterOrEqual(len(slips)*3, moved, "a decrement is visible without its slip")
		s.GreaterOrEqual(len(entries)*3, moved, "a decrement is visible without its log row")
	}
}
