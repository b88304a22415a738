package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"StockMetrics/pkg/cache"
)

// RedisKV stores values without expiry in one Redis hash.
type RedisKV struct {
	cli  *redis.Client
	hash string
}

// NewRedisKV shares the connection of the provider cache.
func NewRedisKV(cli *redis.Client, prefix string) *RedisKV {
	return &RedisKV{cli: cli, hash: prefix + ":kv"}
}

func (r *RedisKV) GetJSON(ctx context.Context, key string, dest interface{}) error {
	b, err := r.cli.HGet(ctx, r.hash, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cache.ErrCacheMiss
		}
		return fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("kv decode %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) PutJSON(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	if err := r.cli.HSet(ctx, r.hash, key, b).Err(); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}
