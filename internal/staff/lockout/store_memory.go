package lockout

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	attempts  int
	expiresAt time.Time
}

// InMemory keeps counters in process. Expired entries are dropped lazily.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]counter
	now      func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]counter), now: time.Now}
}

// Record starts a window on the first attempt; later attempts in the same
// window do not extend it.
func (s *InMemory) Record(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = counter{expiresAt: now.Add(window)}
	}
	c.attempts++
	s.counters[key] = c
	return c.attempts, nil
}

func (s *InMemory) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}
