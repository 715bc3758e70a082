// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"maato/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client, used for the booked-slots lookup.
var CacheClient *redis.Client

// InitRedis initializes the Redis cache client.
func InitRedis() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Printf("Redis cache unavailable: %v", err)
		return
	}
	log.Println("Connected to Redis successfully!")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitRedis()
	}
	return CacheClient
}
