package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoststack/console/internal/core/domain"
)

const defaultConnectTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps credential slots in Redis for deployments where the
// console runs as a long-lived agent or on shared kiosk hosts.
// Key format: session:<slot>
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, scope domain.Scope) (string, error) {
	token, err := r.client.Get(ctx, r.key(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}
	if token == "" {
		return "", domain.ErrNoCredential
	}
	return token, nil
}

func (r *RedisStore) Set(ctx context.Context, scope domain.Scope, token string) error {
	if err := r.client.Set(ctx, r.key(scope), token, 0).Err(); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, scope domain.Scope) error {
	if err := r.client.Del(ctx, r.key(scope)).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (r *RedisStore) key(scope domain.Scope) string {
	return "session:" + scope.TokenSlot()
}
