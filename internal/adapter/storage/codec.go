package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

func encodeCart(cart domain.Cart) ([]byte, error) {
	if cart == nil {
		cart = domain.Cart{}
	}
	blob, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return blob, nil
}

func decodeCart(blob []byte) (domain.Cart, error) {
	cart := domain.Cart{}
	if len(blob) == 0 {
		return cart, nil
	}
	if err := json.Unmarshal(blob, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}
