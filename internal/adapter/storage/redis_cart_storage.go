package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// DefaultCartKey is the slot the storefront has always kept its cart under.
const DefaultCartKey = "@RocketShoes:cart"

type RedisCartStorage struct {
	client *redis.Client
	key    string
}

func NewRedisCartStorage(client *redis.Client, key string) *RedisCartStorage {
	if key == "" {
		key = DefaultCartKey
	}
	return &RedisCartStorage{client: client, key: key}
}

func (r *RedisCartStorage) Load(ctx context.Context) (domain.Cart, error) {
	blob, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	return decodeCart(blob)
}

func (r *RedisCartStorage) Save(ctx context.Context, cart domain.Cart) error {
	blob, err := encodeCart(cart)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
