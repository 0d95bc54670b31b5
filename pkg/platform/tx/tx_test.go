package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "stocktrail/pkg/domain-errors"
)

func TestWithTx(t *testing.T) {
	t.Run("nil transaction leaves context untouched", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, WithTx(ctx, nil))
		_, ok := From(ctx)
		assert.False(t, ok)
	})

	t.Run("stored transaction is returned", func(t *testing.T) {
		tx := &sql.Tx{}
		ctx := WithTx(context.Background(), tx)
		got, ok := From(ctx)
		assert.True(t, ok)
		assert.Same(t, tx, got)
		assert.Same(t, tx, Executor(ctx, nil))
	})
}

func TestAsTimeout(t *testing.T) {
	t.Run("live context keeps the error", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeInternal, "boom")
		assert.Same(t, err, AsTimeout(context.Background(), err))
	})

	t.Run("expired context turns internal errors into timeouts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := AsTimeout(ctx, errors.New("driver: bad connection"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	t.Run("coded errors survive an expired context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := AsTimeout(ctx, dErrors.New(dErrors.CodeTransferCompleted, "done"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTransferCompleted))
	})

	t.Run("deadline errors from a live context become timeouts", func(t *testing.T) {
		err := AsTimeout(context.Background(), context.DeadlineExceeded)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func TestSQLRunnerRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSQLRunner(nil, 0).RunInTx(ctx, func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}
