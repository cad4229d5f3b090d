// Package ratelimit implements per-key fixed-window request limiting.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInvalidConfig is returned for a non-positive limit or window.
var ErrInvalidConfig = errors.New("rate limit requires a positive limit and window")

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Decide builds the Decision for the count-th request in a window that
// resets after ttl.
func Decide(limit, count int, ttl time.Duration) Decision {
	d := Decision{Allowed: count <= limit, Limit: limit, Remaining: limit - count}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d
}

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is an in-process Limiter. Expired windows are dropped
// lazily on access.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	sweepAt time.Time
}

// NewMemoryLimiter allows limit requests per key every period.
func NewMemoryLimiter(limit int, period time.Duration) (*MemoryLimiter, error) {
	if limit <= 0 || period <= 0 {
		return nil, ErrInvalidConfig
	}
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}, nil
}

// withClock replaces the limiter's time source.
func (l *MemoryLimiter) withClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !now.Before(l.sweepAt) {
		for k, w := range l.windows {
			if now.Sub(w.start) >= l.period {
				delete(l.windows, k)
			}
		}
		l.sweepAt = now.Add(l.period)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++

	return Decide(l.limit, w.count, w.start.Add(l.period).Sub(now)), nil
}
