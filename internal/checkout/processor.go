package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"Storefront/internal/cart"
)

var ErrEmptyCart = errors.New("cart empty")

// Processor turns a populated cart into a confirmed order and clears the
// cart. Totals use the price snapshots stored in the cart lines, not live
// catalog prices.
type Processor struct {
	carts *cart.Manager
	log   *zap.Logger
}

func NewProcessor(carts *cart.Manager, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{carts: carts, log: log}
}

func (p *Processor) Checkout(ctx context.Context, userID, paymentMethod string, customer map[string]any) (Order, error) {
	c := p.carts.Get(ctx, userID)
	if len(c) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	o := Order{
		OrderID:       now.Unix(),
		UserID:        userID,
		Items:         c,
		Total:         c.Total(),
		PaymentMethod: paymentMethod,
		Customer:      customer,
		Status:        StatusConfirmed,
		CreatedAt:     now,
	}

	p.carts.Clear(ctx, userID)

	p.log.Info("order created",
		zap.Int64("order_id", o.OrderID),
		zap.String("user_id", userID),
		zap.String("total", o.Total.String()),
		zap.Int("lines", len(o.Items)),
	)
	return o, nil
}
