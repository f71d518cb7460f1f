package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

// Stock is the number of units still available at the inventory service.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}
