// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"ragchat/config"

	"github.com/go-redis/redis/v8"
)

var (
	// HistoryClient backs the conversation history window and last-booking keys.
	HistoryClient *redis.Client
)

// InitRedis initializes the history Redis client (DB from AppConfig).
func InitRedis() {
	HistoryClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisHistoryDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := HistoryClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (History): %v", err)
	}
}

// GetHistoryClient returns the history Redis client.
func GetHistoryClient() *redis.Client {
	if HistoryClient == nil {
		InitRedis()
	}
	return HistoryClient
}
