package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"Storefront/internal/catalog"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 24 * time.Hour
)

// ProductFinder is the slice of the catalog the Manager needs: price and
// title lookups at add time.
type ProductFinder interface {
	Get(ctx context.Context, id string) (catalog.Product, bool, error)
}

// Manager owns per-user cart mutation semantics against the session store.
//
// Every mutation is a full-cart read-modify-write with no lock around the
// sequence, so two overlapping mutations for the same user can lose one
// update (last write wins). That matches the service this replaces and is
// left as-is.
type Manager struct {
	sessions SessionStore
	products ProductFinder
	log      *zap.Logger
}

func NewManager(sessions SessionStore, products ProductFinder, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{sessions: sessions, products: products, log: log}
}

// Get never fails: an unreachable or corrupt session store degrades to an
// empty cart, logged for operational visibility.
func (m *Manager) Get(ctx context.Context, userID string) Cart {
	raw, ok, err := m.sessions.Get(ctx, cartKey(userID))
	if err != nil {
		m.log.Warn("session store read failed, serving empty cart",
			zap.String("user_id", userID), zap.Error(err))
		return Cart{}
	}
	if !ok {
		return Cart{}
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		m.log.Warn("stored cart unreadable, serving empty cart",
			zap.String("user_id", userID), zap.Error(err))
		return Cart{}
	}
	if c == nil {
		c = Cart{}
	}
	return c
}

// Add increments the product's line by qty (creating it at qty) and
// refreshes the title/price snapshot from the catalog.
func (m *Manager) Add(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrMissingProduct
	}
	if qty < 1 {
		return nil, ErrBadQuantity
	}

	p, found, err := m.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if !found {
		return nil, ErrProductNotFound
	}

	c := m.Get(ctx, userID)
	line := c[productID]
	line.Quantity += qty
	line.Title = p.Title
	line.Price = p.Price
	c[productID] = line

	m.put(ctx, userID, c)
	return c, nil
}

// Update sets the line's quantity absolutely; qty <= 0 removes the line.
func (m *Manager) Update(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	c := m.Get(ctx, userID)
	line, ok := c[productID]
	if !ok {
		return nil, ErrLineNotFound
	}

	if qty <= 0 {
		delete(c, productID)
	} else {
		line.Quantity = qty
		c[productID] = line
	}

	m.put(ctx, userID, c)
	return c, nil
}

// Remove deletes the line if present. Removing an absent line is a no-op
// that skips the write entirely.
func (m *Manager) Remove(ctx context.Context, userID, productID string) (Cart, error) {
	c := m.Get(ctx, userID)
	if _, ok := c[productID]; !ok {
		return c, nil
	}

	delete(c, productID)
	m.put(ctx, userID, c)
	return c, nil
}

// Clear overwrites the cart with an empty one. Used by checkout.
func (m *Manager) Clear(ctx context.Context, userID string) Cart {
	c := Cart{}
	m.put(ctx, userID, c)
	return c
}

// put writes the whole cart back. A failed write is logged and swallowed:
// the caller still gets the in-memory cart, and a later read may not see
// this mutation.
func (m *Manager) put(ctx context.Context, userID string, c Cart) {
	raw, err := json.Marshal(c)
	if err != nil {
		m.log.Error("marshal cart failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	if err := m.sessions.Set(ctx, cartKey(userID), string(raw), cartTTL); err != nil {
		m.log.Warn("session store write failed, cart not persisted",
			zap.String("user_id", userID), zap.Error(err))
	}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}
