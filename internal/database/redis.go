package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.URL != "" {
		parsedOpts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if parsedOpts.Password == "" {
			parsedOpts.Password = cfg.Password
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info().Str("addr", opts.Addr).Msg("successfully connected to Redis")
	return client, nil
}
