package store

import (
	"context"
	"database/sql"
	"time"

	logStore "stocktrail/internal/locationlog/store"
	productStore "stocktrail/internal/product/store"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresTx runs workflow operations in one database transaction. Row locks
// taken through FindByIDForUpdate (slip first, then product) make each
// check-then-mutate sequence atomic across processes.
type PostgresTx struct {
	runner *txcontext.SQLRunner
	stores TxStores
}

func NewPostgresTx(db *sql.DB, products *productStore.PostgresStore, slips *PostgresStore, log *logStore.PostgresStore, timeout time.Duration) *PostgresTx {
	return &PostgresTx{
		runner: txcontext.NewSQLRunner(db, timeout),
		stores: TxStores{Products: products, Slips: slips, Log: log},
	}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error {
	return t.runner.RunInTx(ctx, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}
