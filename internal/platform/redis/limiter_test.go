package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/ratelimit"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_Validation(t *testing.T) {
	_, err := NewLimiter(nil, 10, time.Minute, nil)
	assert.Error(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()

	_, err = NewLimiter(client, 0, time.Minute, nil)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)

	_, err = NewLimiter(client, 10, 500*time.Millisecond, nil)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)

	l, err := NewLimiter(client, 10, time.Minute, nil)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}

// TestLimiter_Redis runs against a live server when REDIS_URL is set.
func TestLimiter_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, url)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	l, err := NewLimiter(client, 2, 5*time.Second, nil)
	require.NoError(t, err)

	key := "test:" + uuid.NewString()
	defer client.Del(ctx, KeyPrefix+key)

	d, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	ttl, err := client.PTTL(ctx, KeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
