package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type InventoryClient interface {
	// GetProduct fetches the catalog entry for a product
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)

	// GetStock fetches the units still available for a product
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)

	// UpdateStock overwrites the available units for a product
	UpdateStock(ctx context.Context, productID int64, amount int) error
}
