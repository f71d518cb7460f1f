package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStock_Miss(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, stockKey(9001))

	_, ok, err := adapter.GetStock(ctx, 9001)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStock_SetAndGet(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, stockKey(9002))

	require.NoError(t, adapter.SetStock(ctx, 9002, 10, 1))

	amount, ok, err := adapter.GetStock(ctx, 9002)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, amount)
}

func TestRedisStock_StaleVersionIgnored(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, stockKey(9003))

	require.NoError(t, adapter.SetStock(ctx, 9003, 5, 4))
	require.NoError(t, adapter.SetStock(ctx, 9003, 99, 3))

	amount, _, err := adapter.GetStock(ctx, 9003)
	require.NoError(t, err)
	assert.Equal(t, 5, amount)

	// same version overwrites
	require.NoError(t, adapter.SetStock(ctx, 9003, 6, 4))
	amount, _, err = adapter.GetStock(ctx, 9003)
	require.NoError(t, err)
	assert.Equal(t, 6, amount)
}

func TestRedisStock_ConcurrentVersions(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, stockKey(9004))

	var wg sync.WaitGroup
	for v := 1; v <= 50; v++ {
		wg.Add(1)
		go func(version int) {
			defer wg.Done()
			if err := adapter.SetStock(ctx, 9004, version*10, version); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(v)
	}
	wg.Wait()

	// whatever the arrival order, the newest version wins
	amount, _, err := adapter.GetStock(ctx, 9004)
	require.NoError(t, err)
	assert.Equal(t, 500, amount)
}

func TestRedisStock_Invalidate(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, stockKey(9005))
	require.NoError(t, adapter.SetStock(ctx, 9005, 1, 100))
	require.NoError(t, adapter.InvalidateStock(ctx, 9005))

	_, ok, err := adapter.GetStock(ctx, 9005)
	require.NoError(t, err)
	assert.False(t, ok)

	// a fresh cache accepts low versions again
	require.NoError(t, adapter.SetStock(ctx, 9005, 2, 0))
	amount, ok, err := adapter.GetStock(ctx, 9005)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, amount)
}
