package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const (
	breakerTrip    = 5
	breakerTimeout = 30 * time.Second
)

// BreakerSink stops calling a failing sink for a cool-down period so the
// dispatcher drops events quickly instead of waiting out each publish timeout.
type BreakerSink struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSink(sink Sink, logger *slog.Logger) *BreakerSink {
	settings := gobreaker.Settings{
		Name:        "transfer-events",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("event sink circuit changed", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	}
	return &BreakerSink{sink: sink, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerSink) Publish(ctx context.Context, e Event) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.sink.Publish(ctx, e)
	})
	return err
}
