package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"Storefront/internal/cart"
)

const StatusConfirmed = "confirmed"

// Order is the checkout result. It is returned to the caller and never
// persisted; retries after a successful checkout fail on the empty cart.
type Order struct {
	OrderID       int64           `json:"order_id"`
	UserID        string          `json:"user_id"`
	Items         cart.Cart       `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Customer      map[string]any  `json:"customer"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
