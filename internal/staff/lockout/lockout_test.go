package lockout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stocktrail/pkg/domain-errors"
)

func TestKeyEscapesSegments(t *testing.T) {
	assert.Equal(t, "pin:10.0.0.1", Key("pin", "10.0.0.1"))
	assert.Equal(t, "staff:a_b:__1", Key("staff", "a:b", "::1"))
}

func TestGuardLocksAfterLimit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	g := New(store, WithLimit(3, time.Minute))

	for range 3 {
		require.NoError(t, g.Attempt(ctx, "pin:ip"))
	}
	err := g.Attempt(ctx, "pin:ip")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRateLimited))
	assert.NoError(t, g.Attempt(ctx, "pin:other"), "keys are independent")

	now = now.Add(time.Minute)
	assert.NoError(t, g.Attempt(ctx, "pin:ip"), "window lapsed")
}

func TestGuardResetClearsAttempts(t *testing.T) {
	ctx := context.Background()
	g := New(NewInMemory(), WithLimit(2, time.Minute))
	require.NoError(t, g.Attempt(ctx, "k"))
	require.NoError(t, g.Attempt(ctx, "k"))
	g.Reset(ctx, "k")
	assert.NoError(t, g.Attempt(ctx, "k"))
	assert.NoError(t, g.Attempt(ctx, "k"))
	assert.Error(t, g.Attempt(ctx, "k"))
}

func TestGuardAdmitsAtMostLimitConcurrently(t *testing.T) {
	ctx := context.Background()
	g := New(NewInMemory(), WithLimit(5, time.Minute))

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
		refused  atomic.Int32
	)
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Attempt(ctx, "staff:s1:ip"); err != nil {
				if dErrors.HasCode(err, dErrors.CodeRateLimited) {
					refused.Add(1)
				}
				return
			}
			admitted.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), admitted.Load())
	assert.Equal(t, int32(35), refused.Load())
}

type brokenStore struct{}

func (brokenStore) Record(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("down")
}
func (brokenStore) Clear(context.Context, string) error { return errors.New("down") }

func TestGuardFailsOpen(t *testing.T) {
	g := New(brokenStore{})
	assert.NoError(t, g.Attempt(context.Background(), "k"))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	n, err := store.Record(ctx, "pin:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	mr.FastForward(30 * time.Second)
	n, err = store.Record(ctx, "pin:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mr.FastForward(31 * time.Second)
	n, err = store.Record(ctx, "pin:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "window is anchored at the first attempt")
	require.NoError(t, store.Clear(ctx, "pin:ip"))
	assert.False(t, mr.Exists(keyPrefix+"pin:ip"))
}
