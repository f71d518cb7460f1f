package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Cart is ordered newest first and holds at most one line per product.
type Cart []Product

func (c Cart) Index(productID int64) int {
	return slices.IndexFunc(c, func(p Product) bool { return p.ID == productID })
}

func (c Cart) Get(productID int64) (Product, bool) {
	i := c.Index(productID)
	if i < 0 {
		return Product{}, false
	}
	return c[i], true
}

func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	return slices.Clone(c)
}

// WithUnit adds one unit of product, prepending a new line when the product is not in the cart yet.
func (c Cart) WithUnit(product Product) Cart {
	i := c.Index(product.ID)
	if i < 0 {
		product.Amount = 1
		next := make(Cart, 0, len(c)+1)
		next = append(next, product)
		return append(next, c...)
	}

	next := c.Clone()
	next[i].Amount++
	return next
}

func (c Cart) WithAmount(productID int64, amount int) Cart {
	next := c.Clone()
	if i := next.Index(productID); i >= 0 {
		next[i].Amount = amount
	}
	return next
}

func (c Cart) Without(productID int64) Cart {
	next := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			next = append(next, p)
		}
	}
	return next
}

func (c Cart) Count() int {
	n := 0
	for _, p := range c {
		n += p.Amount
	}
	return n
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		total = total.Add(p.Subtotal())
	}
	return total
}

type SummaryLine struct {
	Product  Product `json:"product"`
	Subtotal string  `json:"subtotal"`
}

type Summary struct {
	Lines []SummaryLine `json:"lines"`
	Count int           `json:"count"`
	Total string        `json:"total"`
}

func (c Cart) Summary() Summary {
	lines := make([]SummaryLine, 0, len(c))
	for _, p := range c {
		lines = append(lines, SummaryLine{
			Product:  p,
			Subtotal: BRL(p.Subtotal()).Format(),
		})
	}

	return Summary{
		Lines: lines,
		Count: c.Count(),
		Total: BRL(c.Total()).Format(),
	}
}
