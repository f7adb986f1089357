package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loanrisk-backend/internal/config"
)

const (
	pingTimeout = 5 * time.Second
	opTimeout   = 2 * time.Second
)

// OpenRedis connects to cfg.RedisAddr and pings it. The caller owns Close.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPass,
		DB:           cfg.RedisDB,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return r, nil
}

// Ping adapts a client to a health check.
func Ping(r redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error { return r.Ping(ctx).Err() }
}
