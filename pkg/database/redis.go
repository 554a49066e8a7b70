package database

import (
	"context"
	"fmt"
	"log"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/go-redis/redis/v8"
)

// InitRedis connects the cache used for friend-id lookups. The portal runs
// fine without it; callers treat a nil client as cache-off.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
