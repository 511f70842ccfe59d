package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis initializes the Redis connection. The cache is an optimization:
// callers probe IsRedisAvailable and fall back to the database when it is
// down.
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// IsRedisAvailable checks if Redis is connected.
func IsRedisAvailable() bool {
	if RedisClient == nil {
		return false
	}
	_, err := RedisClient.Ping(ctx).Result()
	return err == nil
}

// ==================== CACHE KEYS ====================

const (
	GameCachePrefix    = "game:"         // game:123
	GamesCacheKey      = "games:all"     // full catalog
	ReviewsCachePrefix = "reviews:game:" // reviews:game:123
	StatsCacheKey      = "stats:dashboard"
	RateLimitPrefix    = "ratelimit:user:" // ratelimit:user:123
)

// ==================== GENERIC CACHE OPERATIONS ====================

// Set stores any value in cache with TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return RedisClient.Set(ctx, key, data, ttl).Err()
}

// Get retrieves value from cache.
func Get(key string, dest interface{}) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}

	val, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss")
	}
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// Delete removes key from cache.
func Delete(key string) error {
	if !IsRedisAvailable() {
		return nil
	}
	return RedisClient.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching pattern.
func DeletePattern(pattern string) error {
	if !IsRedisAvailable() {
		return nil
	}

	iter := RedisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ==================== GAME CACHING ====================

// GetGame returns a cached game.
func GetGame(gameID uint) (interface{}, error) {
	key := fmt.Sprintf("%s%d", GameCachePrefix, gameID)
	var game interface{}
	err := Get(key, &game)
	return game, err
}

// SetGame caches a game for 1 hour.
func SetGame(gameID uint, game interface{}) error {
	key := fmt.Sprintf("%s%d", GameCachePrefix, gameID)
	return Set(key, game, time.Hour)
}

// InvalidateGame removes a game from cache.
func InvalidateGame(gameID uint) error {
	key := fmt.Sprintf("%s%d", GameCachePrefix, gameID)
	return Delete(key)
}

// GetGames returns the cached catalog.
func GetGames() (interface{}, error) {
	var games interface{}
	err := Get(GamesCacheKey, &games)
	return games, err
}

// SetGames caches the catalog for 5 minutes.
func SetGames(games interface{}) error {
	return Set(GamesCacheKey, games, 5*time.Minute)
}

// InvalidateGamesList invalidates the catalog listing and any per-game
// entries, which go stale together on catalog writes.
func InvalidateGamesList() error {
	if err := Delete(GamesCacheKey); err != nil {
		return err
	}
	return DeletePattern(GameCachePrefix + "*")
}

// ==================== REVIEWS CACHING ====================

// GetReviews returns cached reviews for a game.
func GetReviews(gameID uint) (interface{}, error) {
	key := fmt.Sprintf("%s%d", ReviewsCachePrefix, gameID)
	var reviews interface{}
	err := Get(key, &reviews)
	return reviews, err
}

// SetReviews caches reviews for 10 minutes.
func SetReviews(gameID uint, reviews interface{}) error {
	key := fmt.Sprintf("%s%d", ReviewsCachePrefix, gameID)
	return Set(key, reviews, 10*time.Minute)
}

// InvalidateReviews removes the reviews cache for a game.
func InvalidateReviews(gameID uint) error {
	key := fmt.Sprintf("%s%d", ReviewsCachePrefix, gameID)
	return Delete(key)
}

// ==================== STATISTICS CACHING ====================

// GetDashboardStats returns cached dashboard statistics.
func GetDashboardStats() (interface{}, error) {
	var stats interface{}
	err := Get(StatsCacheKey, &stats)
	return stats, err
}

// SetDashboardStats caches dashboard statistics for 5 minutes.
func SetDashboardStats(stats interface{}) error {
	return Set(StatsCacheKey, stats, 5*time.Minute)
}

// InvalidateDashboardStats removes the dashboard statistics cache.
func InvalidateDashboardStats() error {
	return Delete(StatsCacheKey)
}

// ==================== RATE LIMITING ====================

// CheckRateLimit implements a fixed-window counter per user.
func CheckRateLimit(userID uint, maxRequests int, window time.Duration) (bool, int, error) {
	if !IsRedisAvailable() {
		return true, maxRequests, nil // Allow if Redis unavailable
	}

	key := fmt.Sprintf("%s%d", RateLimitPrefix, userID)

	count, err := RedisClient.Get(ctx, key).Int()
	if err == redis.Nil {
		if err := RedisClient.Set(ctx, key, 1, window).Err(); err != nil {
			return false, 0, err
		}
		return true, maxRequests - 1, nil
	}
	if err != nil {
		return false, 0, err
	}

	if count >= maxRequests {
		ttl, _ := RedisClient.TTL(ctx, key).Result()
		return false, 0, fmt.Errorf("rate limit exceeded, retry after %v", ttl)
	}

	newCount, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	return true, maxRequests - int(newCount), nil
}
