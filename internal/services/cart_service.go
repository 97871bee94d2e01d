package services

import (
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/pricing"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// CartView is a cart together with its totals.
type CartView struct {
	Items     []cart.Item         `json:"items"`
	ItemCount int                 `json:"itemCount"`
	Totals    pricing.CartSummary `json:"totals"`
}

// CartService keeps one cart per user and prices carts under the
// shipping policy used at checkout.
type CartService struct {
	store       cart.Store
	productRepo repositories.ProductRepository
	policy      pricing.Policy
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store cart.Store, productRepo repositories.ProductRepository, policy pricing.Policy, logger *zap.Logger) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger,
	}
}

// Quote prices a cart the client holds. Quantities are clamped to their
// stock snapshot first.
func (s *CartService) Quote(c *cart.Cart) CartView {
	c.Clamp()
	return s.view(c)
}

// GetCart returns the user's cart. A corrupt stored cart is discarded.
func (s *CartService) GetCart(userID string) CartView {
	return s.view(s.load(userID))
}

// AddItem adds quantity units of productID in size, clamped to its stock.
func (s *CartService) AddItem(userID, productID, size string, quantity int) (CartView, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return CartView{}, err
	}

	return s.modify(userID, func(c *cart.Cart) error {
		return c.Add(*product, quantity, size)
	})
}

// UpdateItem sets the quantity of a cart line, clamped to its stock snapshot.
func (s *CartService) UpdateItem(userID, productID, size string, quantity int) (CartView, error) {
	return s.modify(userID, func(c *cart.Cart) error {
		return c.UpdateQuantity(productID, size, quantity)
	})
}

// RemoveItem drops a cart line.
func (s *CartService) RemoveItem(userID, productID, size string) (CartView, error) {
	return s.modify(userID, func(c *cart.Cart) error {
		c.Remove(productID, size)
		return nil
	})
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(userID string) {
	s.store.Delete(userID)
}

func (s *CartService) load(userID string) *cart.Cart {
	c, err := cart.Load(s.store, userID)
	if err != nil {
		s.logger.Warn("discarding unreadable cart", zap.String("user_id", userID), zap.Error(err))
		s.store.Delete(userID)
	}
	return c
}

// modify applies fn to the user's cart and stores the result as one step,
// so concurrent requests for the same user do not overwrite each other.
func (s *CartService) modify(userID string, fn func(*cart.Cart) error) (CartView, error) {
	var view CartView
	err := s.store.Update(userID, func(data []byte, ok bool) ([]byte, error) {
		c := cart.New()
		if ok {
			decoded, err := cart.Unmarshal(data)
			if err != nil {
				s.logger.Warn("discarding unreadable cart", zap.String("user_id", userID), zap.Error(err))
			} else {
				c = decoded
			}
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		next, err := c.Marshal()
		if err != nil {
			return nil, fmt.Errorf("failed to save cart: %w", err)
		}
		view = s.view(c)
		return next, nil
	})
	if err != nil {
		return CartView{}, err
	}
	return view, nil
}

func (s *CartService) view(c *cart.Cart) CartView {
	return CartView{
		Items:     c.Items,
		ItemCount: c.ItemCount(),
		Totals:    c.Totals(s.policy),
	}
}
