package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
)

func testProduct(id, title, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Stock:    10,
	}
}

func newTestCatalog(t *testing.T, products ...catalog.Product) *catalog.MemStore {
	t.Helper()

	store := catalog.NewMemStore()
	for _, p := range products {
		_, err := store.Create(context.Background(), p)
		require.NoError(t, err)
	}
	return store
}

// downStore fails every operation, standing in for an unreachable Redis.
type downStore struct{}

func (downStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (downStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func (downStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestGet_EmptyCart(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t), nil)

	c := m.Get(context.Background(), gofakeit.UUID())

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestAdd_NewLine(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	c, err := m.Add(context.Background(), user, "p1", 3)
	require.NoError(t, err)

	line, ok := c["p1"]
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "Keyboard", line.Title)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("89.99")))

	// The mutation survives a fresh read.
	got := m.Get(context.Background(), user)
	assert.Equal(t, c, got)
}

func TestAdd_IsAdditive(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 2)
	require.NoError(t, err)
	c, err := m.Add(context.Background(), user, "p1", 5)
	require.NoError(t, err)

	assert.Equal(t, 7, c["p1"].Quantity)
}

func TestAdd_RefreshesSnapshot(t *testing.T) {
	store := newTestCatalog(t, testProduct("p1", "Keyboard", "89.99"))
	sessions := NewMemStore()
	user := gofakeit.UUID()

	m := NewManager(sessions, store, nil)
	_, err := m.Add(context.Background(), user, "p1", 1)
	require.NoError(t, err)

	// Second add against a catalog with a changed price: the line must
	// carry the fresh snapshot.
	repriced := newTestCatalog(t, testProduct("p1", "Keyboard", "99.99"))
	m2 := NewManager(sessions, repriced, nil)
	c, err := m2.Add(context.Background(), user, "p1", 1)
	require.NoError(t, err)

	assert.Equal(t, 2, c["p1"].Quantity)
	assert.True(t, c["p1"].Price.Equal(decimal.RequireFromString("99.99")))
}

func TestAdd_UnknownProduct(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 1)
	require.NoError(t, err)

	_, err = m.Add(context.Background(), user, "nope", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	// Cart unchanged by the failed add.
	c := m.Get(context.Background(), user)
	assert.Len(t, c, 1)
	assert.Equal(t, 1, c["p1"].Quantity)
}

func TestAdd_BadArguments(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)

	_, err := m.Add(context.Background(), gofakeit.UUID(), "p1", 0)
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = m.Add(context.Background(), gofakeit.UUID(), "p1", -2)
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = m.Add(context.Background(), gofakeit.UUID(), "  ", 1)
	assert.ErrorIs(t, err, ErrMissingProduct)
}

func TestUpdate_SetsQuantityAbsolutely(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 5)
	require.NoError(t, err)

	c, err := m.Update(context.Background(), user, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c["p1"].Quantity)
}

func TestUpdate_ZeroRemovesLine(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 5)
	require.NoError(t, err)

	c, err := m.Update(context.Background(), user, "p1", 0)
	require.NoError(t, err)
	assert.NotContains(t, c, "p1")
	assert.Empty(t, m.Get(context.Background(), user))
}

func TestUpdate_MissingLine(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t), nil)

	_, err := m.Update(context.Background(), gofakeit.UUID(), "p1", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemove(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t,
		testProduct("p1", "Keyboard", "89.99"),
		testProduct("p2", "Mouse", "19.99"),
	), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 1)
	require.NoError(t, err)
	_, err = m.Add(context.Background(), user, "p2", 1)
	require.NoError(t, err)

	c, err := m.Remove(context.Background(), user, "p1")
	require.NoError(t, err)
	assert.NotContains(t, c, "p1")
	assert.Contains(t, c, "p2")
}

func TestRemove_AbsentLineIsNoop(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 2)
	require.NoError(t, err)

	c, err := m.Remove(context.Background(), user, "nope")
	require.NoError(t, err)
	assert.Equal(t, m.Get(context.Background(), user), c)
	assert.Equal(t, 2, c["p1"].Quantity)
}

func TestGet_StoreDownDegradesToEmpty(t *testing.T) {
	m := NewManager(downStore{}, newTestCatalog(t), nil)

	c := m.Get(context.Background(), gofakeit.UUID())

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestGet_CorruptCartDegradesToEmpty(t *testing.T) {
	sessions := NewMemStore()
	user := gofakeit.UUID()
	require.NoError(t, sessions.Set(context.Background(), cartKey(user), "{not json", 0))

	m := NewManager(sessions, newTestCatalog(t), nil)
	assert.Empty(t, m.Get(context.Background(), user))
}

func TestAdd_StoreDownStillReturnsCart(t *testing.T) {
	m := NewManager(downStore{}, newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)

	// The write fails behind the scenes; the caller still gets the
	// updated cart back.
	c, err := m.Add(context.Background(), gofakeit.UUID(), "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c["p1"].Quantity)
}

func TestClear(t *testing.T) {
	m := NewManager(NewMemStore(), newTestCatalog(t, testProduct("p1", "Keyboard", "89.99")), nil)
	user := gofakeit.UUID()

	_, err := m.Add(context.Background(), user, "p1", 2)
	require.NoError(t, err)

	c := m.Clear(context.Background(), user)
	assert.Empty(t, c)
	assert.Empty(t, m.Get(context.Background(), user))
}

func TestCart_Total(t *testing.T) {
	c := Cart{
		"a": {Quantity: 2, Price: decimal.RequireFromString("10.00")},
		"b": {Quantity: 1, Price: decimal.RequireFromString("5.00")},
	}

	assert.True(t, c.Total().Equal(decimal.RequireFromString("25.00")))
	assert.True(t, Cart{}.Total().IsZero())
}
