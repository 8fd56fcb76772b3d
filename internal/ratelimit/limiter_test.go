package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiterUnderTest(t *testing.T, maxRequests int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, maxRequests, window), mr
}

func TestAllow_UpToLimit(t *testing.T) {
	limiter, _ := newLimiterUnderTest(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter, _ := newLimiterUnderTest(t, 1, time.Minute)
	ctx := context.Background()

	allowed, _, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)

	// First key is exhausted, second key is untouched.
	allowed, _, _, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, _, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_WindowExpiry(t *testing.T) {
	limiter, mr := newLimiterUnderTest(t, 1, time.Minute)
	ctx := context.Background()

	allowed, _, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, _, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)

	// A new window starts once the key expires.
	mr.FastForward(2 * time.Minute)

	allowed, _, _, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestReset(t *testing.T) {
	limiter, _ := newLimiterUnderTest(t, 1, time.Minute)
	ctx := context.Background()

	_, _, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	require.NoError(t, limiter.Reset(ctx, "1.2.3.4"))

	allowed, _, _, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMaxRequests(t *testing.T) {
	limiter, _ := newLimiterUnderTest(t, 42, time.Minute)
	assert.Equal(t, 42, limiter.MaxRequests())
}
