package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type seedSpec struct {
	title       string
	description string
	price       string
	stock       int
}

var demoProducts = []seedSpec{
	{"Phone Model X", "Flagship phone", "699.99", 50},
	{"Wireless Headphones", "Noise cancelling", "199.99", 120},
	{"Mechanical Keyboard", "Tactile switches", "89.99", 200},
	{"4K Monitor", "Ultra HD display", "299.99", 30},
	{"USB-C Hub", "6-in-1 hub", "39.99", 300},
	{"External SSD", "1TB portable", "129.99", 80},
}

// Seed inserts up to n demo products and returns their titles.
func Seed(ctx context.Context, store Store, n int, currency string) ([]string, error) {
	if n < 1 || n > len(demoProducts) {
		n = len(demoProducts)
	}

	for _, spec := range demoProducts[:n] {
		p := Product{
			Title:       spec.title,
			Description: spec.description,
			Price:       decimal.RequireFromString(spec.price),
			Currency:    currency,
			Stock:       spec.stock,
			SKU:         newSKU(spec.title),
		}
		if _, err := store.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed %q: %w", spec.title, err)
		}
	}

	return lo.Map(demoProducts[:n], func(s seedSpec, _ int) string { return s.title }), nil
}

func newSKU(title string) string {
	prefix := strings.ToUpper(strings.ReplaceAll(title, " ", "-"))
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return prefix + "-" + uuid.NewString()[:8]
}
