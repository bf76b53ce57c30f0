// Package service applies the fixed-window per-IP request limit.
package service

import (
	"context"
	"math"
	"time"

	"hireme/internal/ratelimit/models"
	"hireme/pkg/requestcontext"
)

// Counter increments a keyed counter that expires after ttl.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration
}

func New(counter Counter, limit int, window time.Duration) *Limiter {
	return &Limiter{counter: counter, limit: limit, window: window}
}

// CheckIP counts one request from ip against the current window.
func (l *Limiter) CheckIP(ctx context.Context, ip string) (*models.Result, error) {
	now := requestcontext.Now(ctx)
	start := models.WindowStart(now, l.window)
	resetAt := start.Add(l.window)

	n, err := l.counter.Incr(ctx, models.IPKey(ip, start), resetAt.Sub(now))
	if err != nil {
		return nil, err
	}

	result := &models.Result{
		Allowed:   n <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(n), 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = int(math.Ceil(resetAt.Sub(now).Seconds()))
	}
	return result, nil
}
