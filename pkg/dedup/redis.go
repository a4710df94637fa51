package dedup

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "automation:dedup:"

// RedisGuard claims keys with SETNX so multiple engine processes sharing a
// Redis instance agree on which one fires.
type RedisGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisGuard(client redis.UniversalClient, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	claimed, err := g.client.SetNX(ctx, redisKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key %s: %w", key, err)
	}

	return claimed, nil
}
