package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type CartStorage interface {
	// Load reads the persisted cart, returning an empty cart when nothing was saved yet
	Load(ctx context.Context) (domain.Cart, error)

	// Save replaces the persisted cart
	Save(ctx context.Context, cart domain.Cart) error
}
