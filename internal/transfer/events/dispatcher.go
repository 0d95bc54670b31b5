package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink delivers one event. KafkaPublisher is the production sink.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

const defaultBuffer = 256

// Dispatcher decouples workflow commits from event delivery. Emit never
// blocks; Run drains the inbox into the sink until ctx ends. Once Run has
// begun shutting down, Emit refuses new events.
type Dispatcher struct {
	mu        sync.RWMutex
	closed    bool
	sink      Sink
	inbox     chan Event
	logger    *slog.Logger
	onDrop    func()
	timeout   time.Duration
	drainWait time.Duration
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDropCounter is called once for every queued event that could not be delivered.
func WithDropCounter(fn func()) Option {
	return func(d *Dispatcher) {
		d.onDrop = fn
	}
}

func WithBuffer(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.inbox = make(chan Event, n)
		}
	}
}

func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:      sink,
		inbox:     make(chan Event, defaultBuffer),
		timeout:   5 * time.Second,
		drainWait: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit queues e for delivery and reports whether it was accepted. Rejected
// events are left for the caller to count.
func (d *Dispatcher) Emit(_ context.Context, e Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		if d.logger != nil {
			d.logger.Warn("transfer event after shutdown",
				"event_type", string(e.Type),
				"slip_id", e.SlipID.String(),
			)
		}
		return false
	}
	select {
	case d.inbox <- e:
		return true
	default:
		if d.logger != nil {
			d.logger.Warn("transfer event inbox full",
				"event_type", string(e.Type),
				"slip_id", e.SlipID.String(),
			)
		}
		return false
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.close()
			d.drain()
			return ctx.Err()
		case e := <-d.inbox:
			d.deliver(context.WithoutCancel(ctx), e)
		}
	}
}

func (d *Dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// drain flushes what is already queued, bounded by drainWait.
func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainWait)
	defer cancel()
	for {
		select {
		case e := <-d.inbox:
			if ctx.Err() != nil {
				d.dropped(e, "shutdown")
				continue
			}
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.sink.Publish(ctx, e); err != nil {
		d.dropped(e, err.Error())
	}
}

func (d *Dispatcher) dropped(e Event, reason string) {
	if d.onDrop != nil {
		d.onDrop()
	}
	if d.logger != nil {
		d.logger.Warn("transfer event dropped",
			"event_type", string(e.Type),
			"slip_id", e.SlipID.String(),
			"reason", reason,
		)
	}
}
