package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
)

func newTestCarts(t *testing.T, products ...catalog.Product) *cart.Manager {
	t.Helper()

	store := catalog.NewMemStore()
	for _, p := range products {
		_, err := store.Create(context.Background(), p)
		require.NoError(t, err)
	}
	return cart.NewManager(cart.NewMemStore(), store, nil)
}

func testProduct(id, title, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Stock:    10,
	}
}

type failingSessions struct{}

func (failingSessions) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingSessions) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func (failingSessions) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts := newTestCarts(t)
	p := NewProcessor(carts, nil)
	user := gofakeit.UUID()

	_, err := p.Checkout(context.Background(), user, "card", nil)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, carts.Get(context.Background(), user))
}

func TestCheckout_TotalAndClear(t *testing.T) {
	carts := newTestCarts(t,
		testProduct("a", "Widget", "10.00"),
		testProduct("b", "Gadget", "5.00"),
	)
	p := NewProcessor(carts, nil)
	user := gofakeit.UUID()

	_, err := carts.Add(context.Background(), user, "a", 2)
	require.NoError(t, err)
	_, err = carts.Add(context.Background(), user, "b", 1)
	require.NoError(t, err)

	o, err := p.Checkout(context.Background(), user, "card", map[string]any{"name": gofakeit.Name()})
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(decimal.RequireFromString("25.00")), "total = %s", o.Total)
	assert.Equal(t, user, o.UserID)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, "card", o.PaymentMethod)
	assert.Len(t, o.Items, 2)
	assert.NotZero(t, o.OrderID)

	// Checkout cleared the cart, so an immediate retry fails.
	assert.Empty(t, carts.Get(context.Background(), user))
	_, err = p.Checkout(context.Background(), user, "card", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_UsesSnapshotPrices(t *testing.T) {
	store := catalog.NewMemStore()
	_, err := store.Create(context.Background(), testProduct("a", "Widget", "10.00"))
	require.NoError(t, err)

	sessions := cart.NewMemStore()
	carts := cart.NewManager(sessions, store, nil)
	user := gofakeit.UUID()

	_, err = carts.Add(context.Background(), user, "a", 2)
	require.NoError(t, err)

	// Reprice the catalog after the add; the order must bill the price
	// captured in the cart line.
	repriced := catalog.NewMemStore()
	_, err = repriced.Create(context.Background(), testProduct("a", "Widget", "999.00"))
	require.NoError(t, err)

	p := NewProcessor(cart.NewManager(sessions, repriced, nil), nil)
	o, err := p.Checkout(context.Background(), user, "card", nil)
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(decimal.RequireFromString("20.00")), "total = %s", o.Total)
}

func TestCheckout_SessionStoreDown(t *testing.T) {
	// With the session store unreachable the cart reads empty, so
	// checkout reports an empty cart instead of an internal failure.
	store := catalog.NewMemStore()
	carts := cart.NewManager(failingSessions{}, store, nil)
	p := NewProcessor(carts, nil)

	_, err := p.Checkout(context.Background(), gofakeit.UUID(), "card", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}
