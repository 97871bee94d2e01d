package handlers

import (
	"storefront/internal/authz"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	guard    *middleware.Guard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, guard *middleware.Guard, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		guard:    guard,
		validate: NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.guard.Can(authz.ResourceOrders, authz.ActionCreate, h.HandleCreateOrder)...)
	orderRoutes.Get("/myorders", h.guard.Can(authz.ResourceOrders, authz.ActionReadOwn, h.HandleGetMyOrders)...)
	orderRoutes.Get("/:id", h.guard.Can(authz.ResourceOrders, authz.ActionReadOwn, h.HandleGetOrderByID)...)
	orderRoutes.Get("/", h.guard.Can(authz.ResourceOrders, authz.ActionReadAll, h.HandleGetOrders)...)
	orderRoutes.Put("/:id/status", h.guard.Can(authz.ResourceOrders, authz.ActionUpdateStatus, h.HandleUpdateOrderStatus)...)
}

// HandleCreateOrder places an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.OrderInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if len(req.OrderItems) == 0 {
		return fail(c, h.logger, services.ErrNoOrderItems, "Order")
	}
	if resp, ok := check(h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	order, err := h.service.CreateOrder(middleware.ActorFrom(c), req)
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(middleware.ActorFrom(c))
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return c.JSON(orders)
}

// HandleGetOrders lists every order.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one order to its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return c.JSON(order)
}

// StatusUpdate is the body of an order status change.
type StatusUpdate struct {
	OrderStatus models.OrderStatus `json:"orderStatus" validate:"required"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusUpdate
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	order, err := h.service.UpdateOrderStatus(c.Params("id"), req.OrderStatus)
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return c.JSON(order)
}
