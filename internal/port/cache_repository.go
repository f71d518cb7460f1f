package port

import "context"

type CacheRepository interface {
	// GetStock returns the cached stock, ok is false on a cache miss
	GetStock(ctx context.Context, productID int64) (amount int, ok bool, err error)

	// SetStock caches stock for the given inventory version, older versions are ignored
	SetStock(ctx context.Context, productID int64, amount, version int) error

	// InvalidateStock drops the cached stock
	InvalidateStock(ctx context.Context, productID int64) error
}
