package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestCountsWithinWindow() {
	for want := int64(1); want <= 3; want++ {
		n, err := s.store.Incr(s.ctx, "rl:ip:1.2.3.4:0", time.Minute)
		s.Require().NoError(err)
		s.Equal(want, n)
	}

	n, err := s.store.Incr(s.ctx, "rl:ip:5.6.7.8:0", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), n, "keys are independent")
}

func (s *InMemoryStoreSuite) TestExpiredWindowRestarts() {
	_, err := s.store.Incr(s.ctx, "k", time.Minute)
	s.Require().NoError(err)
	_, err = s.store.Incr(s.ctx, "other", time.Minute)
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	n, err := s.store.Incr(s.ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	s.store.mu.Lock()
	_, stale := s.store.windows["other"]
	s.store.mu.Unlock()
	s.False(stale, "expired windows are swept")
}

func (s *InMemoryStoreSuite) TestConcurrentIncrements() {
	const goroutines = 100
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Incr(s.ctx, "shared", time.Minute)
			s.NoError(err)
		}()
	}
	wg.Wait()

	n, err := s.store.Incr(s.ctx, "shared", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(goroutines+1), n)
}
