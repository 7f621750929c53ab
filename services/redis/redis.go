package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client with the handful of operations the
// API needs: presence tracking and per-match unread counters. Everything
// stored here is ephemeral; Postgres is the source of truth.
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

func NewRedisClient(addr string, db int) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		Ctx: context.Background(),
	}
}
