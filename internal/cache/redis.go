package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/forkcast/forkcast-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis, retrying a few times so the service survives
// a cache that comes up slightly after it does.
func NewClient(ctx context.Context, maxAttempts int, cfg *config.Config) (*redis.Client, error) {
	var client *redis.Client

	err := doWithTries(func() error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       0,
		})

		_, err := client.Ping(ctx).Result()
		return err
	}, maxAttempts, 5*time.Second)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxAttempts, err)
	}

	return client, nil
}

func doWithTries(fn func() error, attempts int, delay time.Duration) (err error) {
	for attempts > 0 {
		if err = fn(); err != nil {
			time.Sleep(delay)
			attempts--
			continue
		}
		return nil
	}
	return
}
