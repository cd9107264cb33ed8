package cachestore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Backend       string // "memory" or "redis"
	Prefix        string
	MaxAge        time.Duration // physical backstop for redis documents
	SweepInterval time.Duration // memory sweeper cadence
}

func New(cfg Config, redisClient *redis.Client) Store {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
			MaxAge: cfg.MaxAge,
		})
	default:
		return NewMemoryStore(cfg.SweepInterval)
	}
}
