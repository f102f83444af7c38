package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// StoreRefreshToken records an issued refresh token so it can be revoked
// on logout. The TTL matches the token expiry.
func StoreRefreshToken(userID uint, tokenID string, ttl time.Duration) error {
	key := fmt.Sprintf("refresh:%d:%s", userID, tokenID)
	return Client.Set(Ctx, key, "1", ttl).Err()
}

// IsRefreshTokenValid reports whether a refresh token is still accepted.
func IsRefreshTokenValid(userID uint, tokenID string) bool {
	key := fmt.Sprintf("refresh:%d:%s", userID, tokenID)
	exists, err := Client.Exists(Ctx, key).Result()
	return err == nil && exists == 1
}

// RevokeRefreshTokens invalidates all refresh tokens issued to a user.
func RevokeRefreshTokens(userID uint) error {
	pattern := fmt.Sprintf("refresh:%d:*", userID)
	iter := Client.Scan(Ctx, 0, pattern, 0).Iterator()
	for iter.Next(Ctx) {
		if err := Client.Del(Ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
