package cart_test

import (
	"errors"
	"sync"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price, discount float64, stock int) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Discount: discount,
		Category: "Clothing",
		Images:   []string{"https://img.example/" + id + ".jpg", "https://img.example/second.jpg"},
		Stock:    stock,
	}
}

func TestCart_AddSnapshotsProduct(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("p1", 499, 30, 10), 2, "M"))

	require.Len(t, c.Items, 1)
	item := c.Items[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "https://img.example/p1.jpg", item.Image)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 10, item.Stock)
}

func TestCart_AddClampsToStock(t *testing.T) {
	c := cart.New()
	p := product("p1", 100, 0, 3)

	require.NoError(t, c.Add(p, 5, ""))
	assert.Equal(t, 3, c.Items[0].Quantity)

	require.NoError(t, c.Add(p, 1, ""))
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestCart_AddMergesBySize(t *testing.T) {
	c := cart.New()
	p := product("p1", 100, 0, 10)

	require.NoError(t, c.Add(p, 1, "S"))
	require.NoError(t, c.Add(p, 2, "S"))
	require.NoError(t, c.Add(p, 1, "L"))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
	assert.Equal(t, 4, c.ItemCount())
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	c := cart.New()

	assert.ErrorIs(t, c.Add(product("p1", 100, 0, 10), 0, ""), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(product("p2", 100, 0, 0), 1, ""), cart.ErrOutOfStock)
	assert.Empty(t, c.Items)
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("p1", 100, 0, 4), 1, ""))

	require.NoError(t, c.UpdateQuantity("p1", "", 3))
	assert.Equal(t, 3, c.Items[0].Quantity)

	require.NoError(t, c.UpdateQuantity("p1", "", 40))
	assert.Equal(t, 4, c.Items[0].Quantity)

	assert.ErrorIs(t, c.UpdateQuantity("p1", "", 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateQuantity("p1", "XL", 1), cart.ErrItemNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := cart.New()
	p := product("p1", 100, 0, 10)
	require.NoError(t, c.Add(p, 1, "S"))
	require.NoError(t, c.Add(p, 1, ""))

	c.Remove("p1", "")
	require.Len(t, c.Items, 1)
	assert.Equal(t, "S", c.Items[0].Size)

	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, pricing.CartSummary{}, c.Totals(pricing.DefaultPolicy()))
}

func TestCart_Totals(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("a", 1000, 0, 5), 1, ""))
	require.NoError(t, c.Add(product("b", 2000, 50, 5), 2, ""))

	totals := c.Totals(pricing.DefaultPolicy())

	assert.Equal(t, 3000.0, totals.Subtotal)
	assert.Equal(t, 2000.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 3000.0, totals.Total)
}

func TestCart_OrderItemsUseDiscountedPrice(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("b", 2000, 50, 5), 2, ""))

	items := c.OrderItems()

	require.Len(t, items, 1)
	assert.Equal(t, 1000.0, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestStore_RoundTripAndCorruptData(t *testing.T) {
	store := cart.NewMemoryStore()

	empty, err := cart.Load(store, "session")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	c := cart.New()
	require.NoError(t, c.Add(product("p1", 100, 10, 2), 2, "M"))
	data, err := c.Marshal()
	require.NoError(t, err)
	store.Set("session", data)

	loaded, err := cart.Load(store, "session")
	require.NoError(t, err)
	assert.Equal(t, c.Items, loaded.Items)

	store.Set("broken", []byte("{not json"))
	fallback, err := cart.Load(store, "broken")
	assert.Error(t, err)
	assert.Empty(t, fallback.Items)
}

func TestUnmarshal_ReappliesStockBound(t *testing.T) {
	c, err := cart.Unmarshal([]byte(`{"items":[{"productId":"p1","price":10,"quantity":9,"stock":4},{"productId":"p2","price":10,"quantity":1,"stock":0}]}`))

	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestMemoryStore_UpdateIsExclusivePerKey(t *testing.T) {
	store := cart.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update("session", func(data []byte, ok bool) ([]byte, error) {
				return append(append([]byte{}, data...), 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	data, ok := store.Get("session")
	require.True(t, ok)
	assert.Len(t, data, 50)
}

func TestMemoryStore_UpdateErrorKeepsEntry(t *testing.T) {
	store := cart.NewMemoryStore()
	store.Set("session", []byte("kept"))
	failure := errors.New("out of stock")

	err := store.Update("session", func(data []byte, ok bool) ([]byte, error) {
		assert.True(t, ok)
		return nil, failure
	})

	assert.ErrorIs(t, err, failure)
	data, _ := store.Get("session")
	assert.Equal(t, []byte("kept"), data)
}
