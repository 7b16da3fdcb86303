package services

import (
	"context"
	"time"

	"github.com/nimasrn/clinic-whatsapp/pkg/redis"
)

// RedisClickGuard claims keys with SET NX and lets them expire after ttl.
type RedisClickGuard struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewRedisClickGuard(adapter redis.RedisAdapter, ttl time.Duration) *RedisClickGuard {
	return &RedisClickGuard{
		redis: adapter,
		ttl:   ttl,
	}
}

func (g *RedisClickGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.redis.SetNX(ctx, key, []byte("1"), g.ttl)
}

func (g *RedisClickGuard) Release(ctx context.Context, key string) error {
	return g.redis.Del(ctx, key)
}
