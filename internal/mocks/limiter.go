package mocks

import (
	"context"
	"sync"

	"github.com/Ymit24/language-reader-app-sub000/internal/ratelimit"
)

// MockLimiter implements ratelimit.Limiter for testing. It records every
// key it is asked about.
type MockLimiter struct {
	AllowFn func(ctx context.Context, key string) (ratelimit.Decision, error)

	// Default values used when AllowFn isn't set
	Decision ratelimit.Decision
	Err      error

	mu   sync.Mutex
	keys []string
}

var _ ratelimit.Limiter = (*MockLimiter)(nil)

// Allow implements the ratelimit.Limiter interface
func (m *MockLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()

	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return m.Decision, m.Err
}

// Keys returns the keys passed to Allow, in call order.
func (m *MockLimiter) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}
