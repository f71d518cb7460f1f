package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type DatabaseRepository interface {
	// GetProduct retrieves a catalog product, nil when it does not exist
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)

	// GetInventory retrieves inventory by product ID, nil when it does not exist
	GetInventory(ctx context.Context, productID int64) (*domain.Inventory, error)

	// UpdateInventory updates inventory with version check for optimistic locking
	UpdateInventory(ctx context.Context, inventory domain.Inventory) error

	// UpsertProduct creates or replaces a product together with its stock
	UpsertProduct(ctx context.Context, product domain.Product, stock int) error
}
