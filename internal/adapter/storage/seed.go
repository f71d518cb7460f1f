package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// Seed is the json-server db.json layout the storefront ships with.
type Seed struct {
	Products []domain.Product `json:"products"`
	Stock    []domain.Stock   `json:"stock"`
}

func ReadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	var seed Seed
	if err := json.NewDecoder(f).Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}
