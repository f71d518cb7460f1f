package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const stockKeyPrefix = "stock:"

// Stock is cached as a hash {amount, version}; writes carrying an older
// version than the cached one are dropped.
var setStockScript = redis.NewScript(`
local key = KEYS[1]
local amount = tonumber(ARGV[1])
local version = tonumber(ARGV[2])

local current = redis.call('HGET', key, 'version')
if current and tonumber(current) > version then
	return 0
end

redis.call('HSET', key, 'amount', amount, 'version', version)
return 1
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func stockKey(productID int64) string {
	return stockKeyPrefix + strconv.FormatInt(productID, 10)
}

func (r *RedisAdapter) GetStock(ctx context.Context, productID int64) (int, bool, error) {
	amount, err := r.client.HGet(ctx, stockKey(productID), "amount").Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return amount, true, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, productID int64, amount, version int) error {
	return setStockScript.Run(ctx, r.client, []string{stockKey(productID)}, amount, version).Err()
}

func (r *RedisAdapter) InvalidateStock(ctx context.Context, productID int64) error {
	return r.client.Del(ctx, stockKey(productID)).Err()
}
