package assets

import (
	"context"
	"fmt"
	"time"

	"stickerpack-service/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// CachedLoader decorates another Loader with a Redis cache.
// This implements the CACHE-ASIDE PATTERN:
// 1. Check cache first
// 2. If miss, fetch from the inner loader
// 3. Store in cache for next time
//
// Cache failures never fail a fetch - validation correctness only depends on
// the inner loader, so the cache fails open.
type CachedLoader struct {
	inner  Loader
	client *redis.Client
	ttl    time.Duration
}

// NewCachedLoader wraps inner with a Redis byte cache.
func NewCachedLoader(inner Loader, client *redis.Client, ttl time.Duration) *CachedLoader {
	return &CachedLoader{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

// Fetch returns the asset bytes, from cache when possible.
func (c *CachedLoader) Fetch(ctx context.Context, packID, handle string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.AssetFetchDuration.WithLabelValues("cache").Observe(time.Since(start).Seconds())
	}()

	// Key naming convention: "asset:{packID}:{handle}"
	key := fmt.Sprintf("asset:%s:%s", packID, handle)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		// Cache hit!
		metrics.RecordCacheHit()
		return data, nil
	}
	// redis.Nil is an ordinary miss; anything else is a cache error, and we
	// fall through to the inner loader either way.
	metrics.RecordCacheMiss()

	data, err = c.inner.Fetch(ctx, packID, handle)
	if err != nil {
		return nil, err
	}

	// Store for next time; a failed set is not worth failing the fetch.
	_ = c.client.Set(ctx, key, data, c.ttl).Err()

	return data, nil
}

// Invalidate drops every cached asset for a pack. Called when a pack's
// assets are replaced or the pack is deleted.
func (c *CachedLoader) Invalidate(ctx context.Context, packID string) error {
	pattern := fmt.Sprintf("asset:%s:*", packID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis delete error: %w", err)
		}
	}

	return nil
}

// InitRedis creates a new Redis client and verifies the connection.
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
