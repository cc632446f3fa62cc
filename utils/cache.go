// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"bikereg/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds wizard sessions.
	SessionCacheClient *redis.Client
)

// NewRedisClient connects to the given redis DB and pings it.
func NewRedisClient(cfg config.Config, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// InitSessionCache initializes the redis client backing wizard sessions.
func InitSessionCache() error {
	client, err := NewRedisClient(config.AppConfig, config.AppConfig.RedisSessionDB)
	if err != nil {
		return err
	}
	SessionCacheClient = client
	return nil
}

// GetSessionCacheClient returns the wizard session redis client, or nil before InitSessionCache.
func GetSessionCacheClient() *redis.Client {
	return SessionCacheClient
}
