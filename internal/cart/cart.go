package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrLineNotFound    = errors.New("item not in cart")
	ErrBadQuantity     = errors.New("quantity must be a positive integer")
	ErrMissingProduct  = errors.New("product_id required")
)

// Line is one product's slot in a cart. Title and price are snapshots taken
// when the product was last added; later catalog changes do not touch them.
type Line struct {
	Quantity int             `json:"quantity"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
}

// Cart maps product IDs to lines. An empty cart is an empty map, never nil.
type Cart map[string]Line

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
