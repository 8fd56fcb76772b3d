package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window request counter backed by Redis.
// Redis keeps the limit consistent across replicas, and the Lua script makes
// check-and-increment atomic so concurrent requests cannot slip past the
// limit together.
type RateLimiter struct {
	client      *redis.Client
	maxRequests int           // Maximum requests allowed per window
	window      time.Duration // Window length (e.g., 1 minute)
}

// New creates a rate limiter allowing maxRequests per window.
func New(client *redis.Client, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow checks if a request should be allowed.
// Returns (allowed, remaining, resetTime, error).
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	script := redis.NewScript(`
		local key = KEYS[1]
		local max_requests = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])
		local current_time = tonumber(ARGV[3])

		local current = redis.call('GET', key)

		if current == false then
			-- First request in this window
			redis.call('SET', key, 1, 'EX', window)
			return {1, max_requests - 1, current_time + window}
		else
			current = tonumber(current)
			if current < max_requests then
				redis.call('INCR', key)
				local ttl = redis.call('TTL', key)
				return {1, max_requests - current - 1, current_time + ttl}
			else
				local ttl = redis.call('TTL', key)
				return {0, 0, current_time + ttl}
			end
		end
	`)

	now := time.Now()
	windowSeconds := int(rl.window.Seconds())

	result, err := script.Run(
		ctx,
		rl.client,
		[]string{redisKey},
		rl.maxRequests,
		windowSeconds,
		now.Unix(),
	).Result()

	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected result format")
	}

	allowed := resultSlice[0].(int64) == 1
	remaining := int(resultSlice[1].(int64))
	resetUnix := resultSlice[2].(int64)
	resetTime := time.Unix(resetUnix, 0)

	return allowed, remaining, resetTime, nil
}

// Reset clears the rate limit for a key.
// Useful for testing or manual overrides.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	return rl.client.Del(ctx, redisKey).Err()
}

// MaxRequests returns the maximum number of requests allowed per window.
func (rl *RateLimiter) MaxRequests() int {
	return rl.maxRequests
}
