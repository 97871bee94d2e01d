package services_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	customer = services.Actor{UserID: "user-1", Role: models.RoleUser}
	admin    = services.Actor{UserID: "admin-1", Role: models.RoleAdmin}
)

func newOrderService(repo *MockOrderRepository, carts cart.Store, pub services.EventPublisher, strict bool) *services.OrderService {
	return services.NewOrderService(repo, pricing.DefaultPolicy(), models.Lifecycle{Strict: strict}, carts, pub, zap.NewNop())
}

func sampleInput(items ...models.OrderItem) services.OrderInput {
	return services.OrderInput{
		OrderItems: items,
		ShippingAddress: models.ShippingAddress{
			FullName: "Jane Doe", Phone: "9999999999", Address: "1 Main St",
			City: "Pune", State: "MH", Pincode: "411001",
		},
		PaymentInfo: models.PaymentInfo{PaymentID: "pay_1", Method: "Card", Status: "Completed"},
	}
}

func TestOrderService_CreateOrderRejectsEmptyItems(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, true)

	_, err := service.CreateOrder(customer, sampleInput())

	assert.ErrorIs(t, err, services.ErrNoOrderItems)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrderComputesTotals(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	carts := cart.NewMemoryStore()
	carts.Set(customer.UserID, []byte(`{"items":[]}`))
	service := newOrderService(repo, carts, pub, true)

	repo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Order).ID = "order-1"
	}).Return(nil).Once()
	pub.On("Publish", rabbitmq.RoutingOrderCreated, mock.MatchedBy(func(body []byte) bool {
		var ev services.OrderEvent
		return json.Unmarshal(body, &ev) == nil && ev.OrderID == "order-1" && ev.OrderStatus == models.StatusPending
	})).Return(nil).Once()

	in := sampleInput(
		models.OrderItem{ProductID: "a", Name: "A", Quantity: 1, Price: 200},
		models.OrderItem{ProductID: "b", Name: "B", Quantity: 2, Price: 100},
	)
	in.TotalPrice = 1 // stale client figure

	order, err := service.CreateOrder(customer, in)

	require.NoError(t, err)
	assert.Equal(t, customer.UserID, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 400.0, order.ItemsPrice)
	assert.Equal(t, 40.0, order.ShippingPrice)
	assert.Equal(t, 440.0, order.TotalPrice)
	assert.Equal(t, order.ItemsPrice+order.ShippingPrice, order.TotalPrice)
	assert.Nil(t, order.DeliveredAt)
	_, stillThere := carts.Get(customer.UserID)
	assert.False(t, stillThere)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderService_CreateOrderFreeShipping(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, true)
	repo.On("Create", mock.Anything).Return(nil).Once()

	order, err := service.CreateOrder(customer, sampleInput(models.OrderItem{ProductID: "a", Name: "A", Quantity: 3, Price: 200}))

	require.NoError(t, err)
	assert.Equal(t, 600.0, order.ItemsPrice)
	assert.Zero(t, order.ShippingPrice)
	assert.Equal(t, 600.0, order.TotalPrice)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	service := newOrderService(repo, nil, pub, true)
	repo.On("Create", mock.Anything).Return(nil).Once()
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateOrder(customer, sampleInput(models.OrderItem{ProductID: "a", Name: "A", Quantity: 1, Price: 10}))

	assert.NoError(t, err)
}

func TestOrderService_GetOrderByIDOwnership(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, true)
	order := &models.Order{ID: "o1", UserID: customer.UserID}
	repo.On("GetByID", "o1").Return(order, nil)

	got, err := service.GetOrderByID(customer, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", got.ID)

	_, err = service.GetOrderByID(services.Actor{UserID: "someone-else", Role: models.RoleUser}, "o1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = service.GetOrderByID(admin, "o1")
	assert.NoError(t, err)
}

func TestOrderService_UpdateStatusToDeliveredStampsTime(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	service := newOrderService(repo, nil, pub, true)

	repo.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.StatusShipped, TotalPrice: 440}, nil).Once()
	repo.On("UpdateStatus", "o1", models.StatusDelivered, mock.AnythingOfType("*time.Time")).Return(nil).Once()
	pub.On("Publish", rabbitmq.RoutingOrderStatusChanged, mock.Anything).Return(nil).Once()

	order, err := service.UpdateOrderStatus("o1", models.StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)
	require.NotNil(t, order.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *order.DeliveredAt, time.Minute)
	assert.Equal(t, 440.0, order.TotalPrice)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderService_UpdateStatusWithoutDelivery(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, true)

	repo.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.StatusPending}, nil).Once()
	repo.On("UpdateStatus", "o1", models.StatusProcessing, (*time.Time)(nil)).Return(nil).Once()

	order, err := service.UpdateOrderStatus("o1", models.StatusProcessing)

	require.NoError(t, err)
	assert.Nil(t, order.DeliveredAt)
	repo.AssertExpectations(t)
}

func TestOrderService_UpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, true)

	repo.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.StatusDelivered}, nil).Once()

	_, err := service.UpdateOrderStatus("o1", models.StatusPending)

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PermissiveLifecycle(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newOrderService(repo, nil, nil, false)

	repo.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.StatusDelivered}, nil).Once()
	repo.On("UpdateStatus", "o1", models.StatusPending, (*time.Time)(nil)).Return(nil).Once()

	_, err := service.UpdateOrderStatus("o1", models.StatusPending)
	assert.NoError(t, err)

	repo.On("GetByID", "o1").Return(&models.Order{ID: "o1", Status: models.StatusPending}, nil).Once()
	_, err = service.UpdateOrderStatus("o1", "shipped")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}
