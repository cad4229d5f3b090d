// Package redis provides a Redis-backed fixed-window rate limiter shared by
// every server instance.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/ratelimit"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces limiter keys.
const KeyPrefix = "reader:ratelimit:"

// NewClient parses url, connects and pings.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// Limiter counts requests with INCR on a key that expires with its window.
type Limiter struct {
	client goredis.Cmdable
	limit  int
	period time.Duration
	logger *slog.Logger
}

var _ ratelimit.Limiter = (*Limiter)(nil)

// NewLimiter allows limit requests per key every period.
func NewLimiter(client goredis.Cmdable, limit int, period time.Duration, logger *slog.Logger) (*Limiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if limit <= 0 || period < time.Second {
		return nil, ratelimit.ErrInvalidConfig
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		client: client,
		limit:  limit,
		period: period,
		logger: logger.With(slog.String("component", "redis_rate_limiter")),
	}, nil
}

// Allow implements ratelimit.Limiter.
func (l *Limiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	redisKey := KeyPrefix + key

	var incr *goredis.IntCmd
	var ttl *goredis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return ratelimit.Decision{}, fmt.Errorf("rate limit increment failed: %w", err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	// A fresh key, or one left without expiry by a failed EXPIRE, starts
	// its window now.
	if count == 1 || remaining < 0 {
		if err := l.client.PExpire(ctx, redisKey, l.period).Err(); err != nil {
			l.logger.Warn("failed to set rate limit window",
				slog.String("key", redisKey),
				slog.String("error", err.Error()))
		}
		remaining = l.period
	}

	return ratelimit.Decide(l.limit, count, remaining), nil
}
