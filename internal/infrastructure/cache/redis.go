package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisTracker remembers processed keys with SETNX so that duplicate
// deliveries across replicas are detected.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTracker creates a tracker storing keys under prefix for ttl
func NewRedisTracker(client *redis.Client, prefix string, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, prefix: prefix, ttl: ttl}
}

// MarkIfNew records key and reports true when it was not seen before
func (t *RedisTracker) MarkIfNew(ctx context.Context, key string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.prefix+key, time.Now().UTC().Format(time.RFC3339), t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Forget removes key so a later delivery is processed again
func (t *RedisTracker) Forget(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
