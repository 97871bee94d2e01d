package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"

	"go.uber.org/zap"
)

// EventPublisher sends an order event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderInput is what the checkout submits. The price fields are what the
// client displayed; the stored totals are always recomputed.
type OrderInput struct {
	OrderItems      []models.OrderItem     `json:"orderItems" validate:"dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentInfo     models.PaymentInfo     `json:"paymentInfo"`
	ItemsPrice      float64                `json:"itemsPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// OrderEvent is the message body published for order events.
type OrderEvent struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"user"`
	OrderStatus models.OrderStatus `json:"orderStatus"`
	TotalPrice  float64            `json:"totalPrice"`
	Items       int                `json:"items"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	policy    pricing.Policy
	lifecycle models.Lifecycle
	carts     cart.Store
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. carts and publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, policy pricing.Policy, lifecycle models.Lifecycle, carts cart.Store, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		policy:    policy,
		lifecycle: lifecycle,
		carts:     carts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder stores a new Pending order for actor with totals computed
// from the posted lines under the shipping policy, then empties the
// actor's server-held cart.
func (s *OrderService) CreateOrder(actor Actor, in OrderInput) (*models.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, ErrNoOrderItems
	}

	lines := make([]pricing.Line, len(in.OrderItems))
	items := make([]models.OrderItem, len(in.OrderItems))
	for i, item := range in.OrderItems {
		lines[i] = pricing.Line{Price: item.Price, Quantity: item.Quantity}
		items[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Image,
		}
	}
	totals := s.policy.OrderTotals(lines)

	if in.TotalPrice != 0 && math.Abs(in.TotalPrice-totals.TotalPrice) > 0.005 {
		s.logger.Warn("client order total differs from computed total",
			zap.String("user_id", actor.UserID),
			zap.Float64("client_total", in.TotalPrice),
			zap.Float64("computed_total", totals.TotalPrice))
	}

	now := s.now()
	order := &models.Order{
		UserID:          actor.UserID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentInfo:     in.PaymentInfo,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Float64("total_price", order.TotalPrice))

	if s.carts != nil {
		s.carts.Delete(actor.UserID)
	}
	s.publish(rabbitmq.RoutingOrderCreated, order)
	return order, nil
}

// GetMyOrders returns the actor's orders, newest first.
func (s *OrderService) GetMyOrders(actor Actor) ([]models.Order, error) {
	return s.orderRepo.GetByUser(actor.UserID)
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID returns an order the actor owns, or any order for an admin.
func (s *OrderService) GetOrderByID(actor Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateOrderStatus moves order id to status, stamping the delivery time
// when status is Delivered.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.lifecycle.Check(order.Status, status); err != nil {
		return nil, err
	}

	previous := order.Status
	order.ApplyStatus(status, s.now())

	var deliveredAt *time.Time
	if status == models.StatusDelivered {
		deliveredAt = order.DeliveredAt
	}
	if err := s.orderRepo.UpdateStatus(id, status, deliveredAt); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	s.publish(rabbitmq.RoutingOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) publish(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		OrderStatus: order.Status,
		TotalPrice:  order.TotalPrice,
		Items:       len(order.Items),
		OccurredAt:  s.now(),
	})
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("routing_key", routingKey),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
