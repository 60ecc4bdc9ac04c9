package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// RedisCache holds the shared Redis connection used for reminder claims and the notification stream
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis connection and verifies it with a ping
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewFromClient(client), nil
}

// Connect retries NewRedisCache every delay until it succeeds or attempts run out,
// so the service can start alongside Redis
func Connect(ctx context.Context, redisURL string, attempts uint64, delay time.Duration, logger zerolog.Logger) (*RedisCache, error) {
	if _, err := redis.ParseURL(redisURL); err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if attempts == 0 {
		attempts = 1
	}

	var rc *RedisCache
	attempt := 0
	backoff := retry.WithMaxRetries(attempts-1, retry.NewConstant(delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c, err := NewRedisCache(ctx, redisURL)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("redis connection failed")
			return retry.RetryableError(err)
		}
		rc = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to redis after %d attempts: %w", attempt, err)
	}
	return rc, nil
}

// NewFromClient wraps an existing client
func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "danglers:"}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Claim records key for ttl and reports whether this caller set it first.
// A second claim on the same key before it expires returns false.
func (rc *RedisCache) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := rc.client.SetNX(ctx, rc.prefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claiming %s: %w", key, err)
	}
	return ok, nil
}
