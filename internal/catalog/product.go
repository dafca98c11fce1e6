package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices render as plain JSON numbers in API responses.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is immutable once created: there is no update path, and cart lines
// keep their own title/price snapshot taken at add time.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SearchQuery struct {
	Text     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PerPage  int
}

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

func (q SearchQuery) normalized() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

type SearchResult struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

type Store interface {
	Get(ctx context.Context, id string) (Product, bool, error)
	Search(ctx context.Context, q SearchQuery) (SearchResult, error)
	Create(ctx context.Context, p Product) (Product, error)
	Ping(ctx context.Context) error
}

func pageCount(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
