// Package cart models the shopper's cart. The cart lives with the client;
// this package gives it an explicit state type, a small set of update
// operations and a serialization boundary for whatever stores it.
package cart

import (
	"errors"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrItemNotFound    = errors.New("item not in cart")
)

// Item is one cart line, keyed by product and size.
type Item struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"gte=0"`
	Discount  float64 `json:"discount" validate:"gte=0,lte=100"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	// Stock is the inventory seen when the item was added; Quantity never exceeds it.
	Stock int `json:"stock" validate:"gte=0"`
}

func (i Item) matches(productID, size string) bool {
	return i.ProductID == productID && i.Size == size
}

// Cart is the client's cart state.
type Cart struct {
	Items []Item `json:"items" validate:"dive"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []Item{}}
}

// Add puts quantity units of p in the cart, merging with an existing line for
// the same size. The resulting quantity is clamped to p.Stock.
func (c *Cart) Add(p models.Product, quantity int, size string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock <= 0 {
		return ErrOutOfStock
	}

	if i := c.find(p.ID, size); i >= 0 {
		item := &c.Items[i]
		item.Stock = p.Stock
		item.Quantity = clamp(item.Quantity+quantity, p.Stock)
		return nil
	}

	var image string
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Discount:  p.Discount,
		Image:     image,
		Category:  p.Category,
		Size:      size,
		Quantity:  clamp(quantity, p.Stock),
		Stock:     p.Stock,
	})
	return nil
}

// UpdateQuantity sets a line's quantity, clamped to its stock snapshot.
func (c *Cart) UpdateQuantity(productID, size string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i := c.find(productID, size)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items[i].Quantity = clamp(quantity, c.Items[i].Stock)
	return nil
}

// Remove drops the line for productID and size, if present.
func (c *Cart) Remove(productID, size string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.matches(productID, size) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Clamp enforces the stock bound on every line. Lines with no stock left
// are dropped.
func (c *Cart) Clamp() {
	kept := c.Items[:0]
	for _, item := range c.Items {
		item.Quantity = clamp(item.Quantity, item.Stock)
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Lines converts the cart for pricing.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{Price: item.Price, Discount: item.Discount, Quantity: item.Quantity}
	}
	return lines
}

// Totals prices the cart under policy.
func (c *Cart) Totals(policy pricing.Policy) pricing.CartSummary {
	return policy.CartTotals(c.Lines())
}

// OrderItems snapshots the cart as order lines at discounted unit prices.
func (c *Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     pricing.DiscountedPrice(item.Price, item.Discount),
			Image:     item.Image,
		}
	}
	return items
}

func (c *Cart) find(productID, size string) int {
	for i, item := range c.Items {
		if item.matches(productID, size) {
			return i
		}
	}
	return -1
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
