package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

const codeMappingsKey = "registreqc:code_mappings"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CacheCodeMappings stores the code → category table so later runs skip the
// initial full-table read.
func CacheCodeMappings(ctx context.Context, mappings map[string]uint, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(mappings)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, codeMappingsKey, payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache code mappings", err, nil)
		return err
	}
	return nil
}

// GetCodeMappings reads the cached mapping table; a miss returns nil, nil and
// the caller falls back to the database.
func GetCodeMappings(ctx context.Context) (map[string]uint, error) {
	if client == nil {
		return nil, nil
	}
	payload, err := client.Get(ctx, codeMappingsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read cached code mappings", err, nil)
		return nil, err
	}

	var mappings map[string]uint
	if err := json.Unmarshal(payload, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// InvalidateCodeMappings drops the cached table after curation updates.
func InvalidateCodeMappings(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, codeMappingsKey).Err()
}
