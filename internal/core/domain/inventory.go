package domain

import (
	"errors"
	"time"
)

var ErrOptimisticLock = errors.New("optimistic lock conflict")

type Inventory struct {
	ProductID int64
	Quantity  int
	Version   int // optimistic locking
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Inventory) Stock() Stock {
	return Stock{ID: i.ProductID, Amount: i.Quantity}
}
