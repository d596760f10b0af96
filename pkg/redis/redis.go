package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abrefacil/briefing-backend/config"
	"github.com/abrefacil/briefing-backend/pkg/logger"
)

var client *redis.Client

// Init initializes the Redis connection. Redis is optional: callers should
// only invoke Init when an address is configured.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		// Leave the cache disabled instead of keeping a dead client around
		client.Close()
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// Enabled reports whether a Redis connection has been initialized
func Enabled() bool {
	return client != nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// GetLookup returns a cached external-lookup payload, or "" on miss.
// Keys follow the pattern "lookup:cnpj:<digits>" and "lookup:cep:<digits>".
func GetLookup(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", nil
	}

	val, err := client.Get(ctx, fmt.Sprintf("lookup:%s", key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error("Failed to read lookup cache", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Debug("Lookup cache hit", map[string]interface{}{
		"key": key,
	})
	return val, nil
}

// SetLookup stores an external-lookup payload with the given TTL
func SetLookup(ctx context.Context, key, payload string, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	err := client.Set(ctx, fmt.Sprintf("lookup:%s", key), payload, ttl).Err()
	if err != nil {
		logger.Error("Failed to write lookup cache", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
