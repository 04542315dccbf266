package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a connected client, or nil when Redis is disabled or
// unreachable. Callers run without the permission cache when it is nil.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable at %s, permission cache disabled: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}

	log.Printf("✅ Redis connected [%s db=%d]", cfg.Addr, cfg.DB)
	return client
}
