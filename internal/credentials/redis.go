package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores the key as a plain string value.
type Redis struct {
	client redis.Cmdable
	key    string
}

// NewRedis creates a Redis store. prefix namespaces the storage key ("" for none).
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, key: prefix + StorageKey}
}

func (r *Redis) Get(ctx context.Context) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential from redis: %w", err)
	}
	return val, val != "", nil
}

func (r *Redis) Set(ctx context.Context, key string) error {
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, k, 0).Err(); err != nil {
		return fmt.Errorf("failed to write credential to redis: %w", err)
	}
	return nil
}
