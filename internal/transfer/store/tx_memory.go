package store

import (
	"context"
	"errors"
	"time"

	logModels "stocktrail/internal/locationlog/models"
	logStore "stocktrail/internal/locationlog/store"
	productModels "stocktrail/internal/product/models"
	productStore "stocktrail/internal/product/store"
	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/sentinel"
	txcontext "stocktrail/pkg/platform/tx"
)

// InMemoryTx serializes workflow transactions over the in-memory stores.
// Writes are staged and applied only after fn succeeds with a live context,
// so a failed or timed-out operation leaves nothing behind. The commit holds
// all three store locks, so readers see either none or all of it.
type InMemoryTx struct {
	sem      chan struct{}
	products *productStore.InMemory
	slips    *InMemory
	log      *logStore.InMemory
	timeout  time.Duration
}

func NewInMemoryTx(products *productStore.InMemory, slips *InMemory, log *logStore.InMemory, timeout time.Duration) *InMemoryTx {
	if timeout <= 0 {
		timeout = txcontext.DefaultTimeout
	}
	return &InMemoryTx{
		sem:      make(chan struct{}, 1),
		products: products,
		slips:    slips,
		log:      log,
		timeout:  timeout,
	}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error {
	return t.exclusive(ctx, func(ctx context.Context) error {
		st := &stage{
			tx:       t,
			products: make(map[id.ProductID]productModels.Product),
			slips:    make(map[id.SlipID]models.Slip),
			created:  make(map[id.SlipID]bool),
		}
		if err := fn(ctx, TxStores{
			Products: stagedProducts{st},
			Slips:    stagedSlips{st},
			Log:      stagedLog{st},
		}); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return st.commit()
	})
}

// Exclusive returns a runner that holds the same lock without staging, for
// administrative operations that must not interleave with transfers.
func (t *InMemoryTx) Exclusive() *ExclusiveRunner {
	return &ExclusiveRunner{tx: t}
}

type ExclusiveRunner struct {
	tx *InMemoryTx
}

func (r *ExclusiveRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.exclusive(ctx, fn)
}

func (t *InMemoryTx) exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: lock wait exceeded deadline")
	}
	defer func() { <-t.sem }()

	return txcontext.AsTimeout(ctx, fn(ctx))
}

type stage struct {
	tx       *InMemoryTx
	products map[id.ProductID]productModels.Product
	slips    map[id.SlipID]models.Slip
	created  map[id.SlipID]bool
	entries  []logModels.Entry
}

func (st *stage) commit() error {
	products, slips, log := st.tx.products, st.tx.slips, st.tx.log
	products.Lock()
	defer products.Unlock()
	slips.mu.Lock()
	defer slips.mu.Unlock()
	log.Lock()
	defer log.Unlock()

	for slipID := range st.slips {
		_, exists := slips.slips[slipID]
		switch {
		case st.created[slipID] && exists:
			return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeInternal, "failed to commit slip")
		case !st.created[slipID] && !exists:
			return dErrors.Wrap(ErrNotFound, dErrors.CodeInternal, "failed to commit slip")
		}
	}

	for _, p := range st.products {
		p := p
		products.PutLocked(&p)
	}
	for slipID, slip := range st.slips {
		slips.slips[slipID] = copySlip(&slip)
	}
	for i := range st.entries {
		log.AppendLocked(&st.entries[i])
	}
	return nil
}

type stagedProducts struct{ st *stage }

func (p stagedProducts) FindByIDForUpdate(ctx context.Context, productID id.ProductID) (*productModels.Product, error) {
	if staged, ok := p.st.products[productID]; ok {
		return &staged, nil
	}
	return p.st.tx.products.FindByID(ctx, productID)
}

func (p stagedProducts) UpdateQuantityAndBranch(ctx context.Context, productID id.ProductID, u productModels.Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	current, err := p.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	p.st.products[productID] = u.Apply(*current, time.Now().UTC())
	return nil
}

type stagedSlips struct{ st *stage }

func (s stagedSlips) Create(ctx context.Context, slip *models.Slip) error {
	if _, ok := s.st.slips[slip.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, err := s.st.tx.slips.FindByID(ctx, slip.ID); err == nil {
		return sentinel.ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	s.st.slips[slip.ID] = copySlip(slip)
	s.st.created[slip.ID] = true
	return nil
}

func (s stagedSlips) FindByIDForUpdate(ctx context.Context, slipID id.SlipID) (*models.Slip, error) {
	if staged, ok := s.st.slips[slipID]; ok {
		c := copySlip(&staged)
		return &c, nil
	}
	return s.st.tx.slips.FindByID(ctx, slipID)
}

func (s stagedSlips) Update(ctx context.Context, slip *models.Slip) error {
	if _, err := s.FindByIDForUpdate(ctx, slip.ID); err != nil {
		return err
	}
	s.st.slips[slip.ID] = copySlip(slip)
	return nil
}

type stagedLog struct{ st *stage }

func (l stagedLog) Append(_ context.Context, e *logModels.Entry) error {
	l.st.entries = append(l.st.entries, *e)
	return nil
}
