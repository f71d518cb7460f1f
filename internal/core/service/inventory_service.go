package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockConflict   = errors.New("stock update kept conflicting")
)

const setStockAttempts = 3

// InventoryService backs the inventory HTTP API. The database is
// authoritative; the cache only ever holds stock for a known version.
type InventoryService struct {
	db    port.DatabaseRepository
	cache port.CacheRepository
	log   *logrus.Entry
}

func NewInventoryService(db port.DatabaseRepository, cache port.CacheRepository, log *logrus.Entry) *InventoryService {
	return &InventoryService{db: db, cache: cache, log: log}
}

func (s *InventoryService) Product(ctx context.Context, productID int64) (domain.Product, error) {
	p, err := s.db.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}

func (s *InventoryService) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	amount, ok, err := s.cache.GetStock(ctx, productID)
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("stock cache read failed")
	}
	if err == nil && ok {
		return domain.Stock{ID: productID, Amount: amount}, nil
	}

	inv, err := s.db.GetInventory(ctx, productID)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("get inventory: %w", err)
	}
	if inv == nil {
		return domain.Stock{}, ErrProductNotFound
	}

	if err := s.cache.SetStock(ctx, productID, inv.Quantity, inv.Version); err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("stock cache warm failed")
	}

	return inv.Stock(), nil
}

func (s *InventoryService) SetStock(ctx context.Context, productID int64, amount int) (domain.Stock, error) {
	if amount < 0 {
		return domain.Stock{}, ErrInvalidAmount
	}

	for attempt := 1; attempt <= setStockAttempts; attempt++ {
		inv, err := s.db.GetInventory(ctx, productID)
		if err != nil {
			return domain.Stock{}, fmt.Errorf("get inventory: %w", err)
		}
		if inv == nil {
			return domain.Stock{}, ErrProductNotFound
		}

		inv.Quantity = amount
		err = s.db.UpdateInventory(ctx, *inv)
		if errors.Is(err, domain.ErrOptimisticLock) {
			s.log.WithFields(logrus.Fields{"product_id": productID, "attempt": attempt}).Debug("stock version conflict, retrying")
			continue
		}
		if err != nil {
			return domain.Stock{}, fmt.Errorf("update inventory: %w", err)
		}

		if err := s.cache.SetStock(ctx, productID, amount, inv.Version+1); err != nil {
			s.log.WithError(err).WithField("product_id", productID).Warn("stock cache refresh failed")
			if err := s.cache.InvalidateStock(ctx, productID); err != nil {
				s.log.WithError(err).WithField("product_id", productID).Error("stock cache invalidation failed")
			}
		}

		return inv.Stock(), nil
	}

	return domain.Stock{}, ErrStockConflict
}

// Seed loads a catalog snapshot. Products without a stock entry start at zero.
func (s *InventoryService) Seed(ctx context.Context, products []domain.Product, stock []domain.Stock) error {
	amounts := make(map[int64]int, len(stock))
	for _, st := range stock {
		amounts[st.ID] = st.Amount
	}

	for _, p := range products {
		p.Amount = 0
		if err := s.db.UpsertProduct(ctx, p, amounts[p.ID]); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
		if err := s.cache.InvalidateStock(ctx, p.ID); err != nil {
			return fmt.Errorf("invalidate stock %d: %w", p.ID, err)
		}
	}

	s.log.WithField("products", len(products)).Info("inventory seeded")
	return nil
}
