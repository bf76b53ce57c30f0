package store

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	expiresAt time.Time
}

// InMemoryStore keeps fixed-window counters in process memory. State is lost
// on restart and not shared between instances; use RedisStore for that.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Incr bumps the counter for key and returns the new value. A fresh or
// expired counter starts at 1 and lives for ttl.
func (s *InMemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.windows[key]
	if w == nil || !now.Before(w.expiresAt) {
		s.sweep(now)
		w = &window{expiresAt: now.Add(ttl)}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// sweep drops expired windows. Must be called with s.mu held.
func (s *InMemoryStore) sweep(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.expiresAt) {
			delete(s.windows, key)
		}
	}
}
