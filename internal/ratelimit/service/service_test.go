package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireme/internal/ratelimit/store"
	"hireme/pkg/requestcontext"
)

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

func TestCheckIP(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	limiter := New(store.NewInMemoryStore(), 3, 15*time.Minute)

	for i := 1; i <= 3; i++ {
		result, err := limiter.CheckIP(ctx, "198.51.100.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3-i, result.Remaining)
		assert.Equal(t, time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC), result.ResetAt)
	}

	result, err := limiter.CheckIP(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.Equal(t, 300, result.RetryAfter)

	other, err := limiter.CheckIP(ctx, "198.51.100.5")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	next := requestcontext.WithTime(context.Background(), now.Add(5*time.Minute))
	result, err = limiter.CheckIP(next, "198.51.100.4")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "a new window starts from zero")
}

func TestCheckIPSurfacesStoreErrors(t *testing.T) {
	_, err := New(failingCounter{}, 10, time.Minute).CheckIP(context.Background(), "198.51.100.4")
	assert.Error(t, err)
}
