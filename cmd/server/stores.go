package main

import (
	"context"
	"log/slog"

	branchService "stocktrail/internal/branch/service"
	branchStore "stocktrail/internal/branch/store"
	"stocktrail/internal/directory"
	logService "stocktrail/internal/locationlog/service"
	logStore "stocktrail/internal/locationlog/store"
	"stocktrail/internal/platform/config"
	"stocktrail/internal/platform/postgres"
	productStore "stocktrail/internal/product/store"
	"stocktrail/internal/seed"
	staffService "stocktrail/internal/staff/service"
	staffStore "stocktrail/internal/staff/store"
	transferService "stocktrail/internal/transfer/service"
	transferStore "stocktrail/internal/transfer/store"
	txcontext "stocktrail/pkg/platform/tx"
)

type branchBackend interface {
	branchService.Store
	directory.BranchSource
}

type staffBackend interface {
	staffService.Store
	directory.StaffSource
}

type productBackend interface {
	directory.ProductSource
	seed.ProductSaver
}

type slipBackend interface {
	transferService.SlipReader
	logService.SlipPurger
}

// stores is one consistent storage backend: every store and both transaction
// runners share either the in-memory maps or one *sql.DB.
type stores struct {
	kind     string
	branches branchBackend
	staff    staffBackend
	products productBackend
	slips    slipBackend
	log      logService.Store
	tx       transferService.Tx
	reset    logService.TxRunner
	ping     func(ctx context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Database.URL == "" {
		return memoryStores(cfg), nil
	}
	return postgresStores(ctx, cfg, log)
}

func memoryStores(cfg config.Config) *stores {
	products := productStore.NewInMemory()
	slips := transferStore.NewInMemory()
	entries := logStore.NewInMemory()
	tx := transferStore.NewInMemoryTx(products, slips, entries, cfg.Transfer.OperationTimeout)
	return &stores{
		kind:     "memory",
		branches: branchStore.NewInMemory(),
		staff:    staffStore.NewInMemory(),
		products: products,
		slips:    slips,
		log:      entries,
		tx:       tx,
		reset:    tx.Exclusive(),
		ping:     func(context.Context) error { return nil },
		close:    func() {},
	}
}

func postgresStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	products := productStore.NewPostgres(db)
	slips := transferStore.NewPostgres(db)
	entries := logStore.NewPostgres(db)
	return &stores{
		kind:     "postgres",
		branches: branchStore.NewPostgres(db),
		staff:    staffStore.NewPostgres(db),
		products: products,
		slips:    slips,
		log:      entries,
		tx:       transferStore.NewPostgresTx(db, products, slips, entries, cfg.Transfer.OperationTimeout),
		reset:    txcontext.NewSQLRunner(db, cfg.Transfer.OperationTimeout),
		ping:     db.PingContext,
		close:    func() { _ = db.Close() },
	}, nil
}
