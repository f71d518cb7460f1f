package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// MemoryCartStorage keeps the encoded blob so callers never share slices with it.
type MemoryCartStorage struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{}
}

func (m *MemoryCartStorage) Load(ctx context.Context) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeCart(m.blob)
}

func (m *MemoryCartStorage) Save(ctx context.Context, cart domain.Cart) error {
	blob, err := encodeCart(cart)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	return nil
}

// MemoryInventory implements both inventory repositories for local runs and tests.
type MemoryInventory struct {
	mu        sync.Mutex
	products  map[int64]domain.Product
	inventory map[int64]domain.Inventory
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		products:  make(map[int64]domain.Product),
		inventory: make(map[int64]domain.Inventory),
	}
}

func (m *MemoryInventory) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryInventory) GetInventory(ctx context.Context, productID int64) (*domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.inventory[productID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *MemoryInventory) UpdateInventory(ctx context.Context, inv domain.Inventory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.inventory[inv.ProductID]
	if !ok || current.Version != inv.Version {
		return domain.ErrOptimisticLock
	}

	current.Quantity = inv.Quantity
	current.Version++
	current.UpdatedAt = time.Now()
	m.inventory[inv.ProductID] = current
	return nil
}

func (m *MemoryInventory) UpsertProduct(ctx context.Context, product domain.Product, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.products[product.ID] = product

	inv, ok := m.inventory[product.ID]
	if !ok {
		inv = domain.Inventory{ProductID: product.ID, CreatedAt: now}
	} else {
		inv.Version++
	}
	inv.Quantity = stock
	inv.UpdatedAt = now
	m.inventory[product.ID] = inv
	return nil
}

// Cache side: the memory inventory has no separate cache, reads always miss.

func (m *MemoryInventory) GetStock(ctx context.Context, productID int64) (int, bool, error) {
	return 0, false, nil
}

func (m *MemoryInventory) SetStock(ctx context.Context, productID int64, amount, version int) error {
	return nil
}

func (m *MemoryInventory) InvalidateStock(ctx context.Context, productID int64) error {
	return nil
}
