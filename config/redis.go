package config

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ConnectRedis establishes connection to Redis. It returns nil when Redis is
// unreachable; callers fall back to in-process locking and skip caching.
func ConnectRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Log.Warn("Redis connection failed, cache and distributed locks disabled", zap.Error(err))
		client.Close()
		return nil
	}

	logger.Log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	return client
}
