// Package lockout throttles repeated PIN guesses. Every attempt is counted per
// key in a fixed window before the PIN is verified; once the limit is used up,
// further attempts are refused until the window lapses or a success clears
// the key.
package lockout

import (
	"context"
	"log/slog"
	"strings"
	"time"

	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/requestcontext"
)

const (
	DefaultAttempts = 5
	DefaultWindow   = 15 * time.Minute
)

// Store counts attempts. Record increments atomically and returns the count
// within the current window.
type Store interface {
	Record(ctx context.Context, key string, window time.Duration) (int, error)
	Clear(ctx context.Context, key string) error
}

// Guard applies the attempt limit on top of a Store.
type Guard struct {
	store    Store
	attempts int
	window   time.Duration
	logger   *slog.Logger
}

type Option func(*Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithLimit overrides the defaults. Non-positive values are ignored.
func WithLimit(attempts int, window time.Duration) Option {
	return func(g *Guard) {
		if attempts > 0 {
			g.attempts = attempts
		}
		if window > 0 {
			g.window = window
		}
	}
}

func New(store Store, opts ...Option) *Guard {
	g := &Guard{store: store, attempts: DefaultAttempts, window: DefaultWindow}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key builds a store key from segments. Colons inside a segment are escaped
// so caller-supplied values cannot reach into a neighbouring key.
func Key(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = strings.ReplaceAll(s, ":", "_")
	}
	return strings.Join(escaped, ":")
}

// Attempt reserves one attempt for key ahead of verification, so a burst of
// concurrent guesses is cut off at the limit. Callers Reset on success.
// Store errors fail open.
func (g *Guard) Attempt(ctx context.Context, key string) error {
	n, err := g.store.Record(ctx, key, g.window)
	if err != nil {
		g.warn(ctx, "lockout record failed", key, err)
		return nil
	}
	if n > g.attempts {
		g.warn(ctx, "pin attempts locked out", key, nil)
		return dErrors.New(dErrors.CodeRateLimited, "too many failed pin attempts, try again later")
	}
	return nil
}

func (g *Guard) Reset(ctx context.Context, key string) {
	if err := g.store.Clear(ctx, key); err != nil {
		g.warn(ctx, "lockout clear failed", key, err)
	}
}

func (g *Guard) warn(ctx context.Context, msg, key string, err error) {
	if g.logger == nil {
		return
	}
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"lockout_key", key,
	}
	if err != nil {
		args = append(args, "error", err)
	}
	g.logger.WarnContext(ctx, msg, args...)
}
