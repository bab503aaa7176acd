package database

import (
	"inkwell/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates the client for the fast counter store. The connection
// is not pinged here: the rate limiter treats an unreachable counter store as
// a degraded tier, not a startup failure.
func ConnectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
