package tx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dErrors "stocktrail/pkg/domain-errors"
)

// DefaultTimeout bounds a transaction whose context carries no deadline.
const DefaultTimeout = 5 * time.Second

// SQLRunner runs a function inside a database transaction carried by ctx.
// Stores reached through Executor join it.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
	opts    *sql.TxOptions
}

func NewSQLRunner(db *sql.DB, timeout time.Duration) *SQLRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SQLRunner{db: db, timeout: timeout}
}

// RunInTx commits when fn returns nil and rolls back otherwise. A context that
// expires before commit rolls everything back and reports a timeout.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, r.opts)
	if err != nil {
		return AsTimeout(ctx, dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction"))
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return AsTimeout(ctx, err)
	}
	if err := sqlTx.Commit(); err != nil {
		return AsTimeout(ctx, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction"))
	}
	return nil
}

// AsTimeout rewrites err as a timeout when ctx has expired, keeping domain
// errors that already carry a code other than internal.
func AsTimeout(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	ctxErr := ctx.Err()
	if ctxErr == nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	if code := dErrors.CodeOf(err); code != dErrors.CodeInternal {
		return err
	}
	if ctxErr == nil {
		ctxErr = context.DeadlineExceeded
	}
	return dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "operation deadline exceeded")
}
