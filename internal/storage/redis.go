package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces jobswipe keys in a shared Redis
const DefaultRedisPrefix = "jobswipe:"

// RedisAdapter stores values as plain Redis strings
type RedisAdapter struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// NewRedisAdapter wraps an existing client. An empty prefix uses DefaultRedisPrefix.
func NewRedisAdapter(rdb *redis.Client, prefix string) *RedisAdapter {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisAdapter{rdb: rdb, prefix: prefix}
}

// Get implements Adapter
func (r *RedisAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, &Error{Op: "get", Key: key, Cause: err}
	}
	return value, true, nil
}

// Set implements Adapter
func (r *RedisAdapter) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Close closes the underlying client
func (r *RedisAdapter) Close() error {
	return r.rdb.Close()
}
