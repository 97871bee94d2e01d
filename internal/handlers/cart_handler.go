package handlers

import (
	"storefront/internal/authz"
	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler serves the server-held cart and the stateless quote.
type CartHandler struct {
	service  *services.CartService
	guard    *middleware.Guard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, guard *middleware.Guard, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		guard:    guard,
		validate: NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	can := func(handler fiber.Handler) []fiber.Handler {
		return h.guard.Can(authz.ResourceCart, authz.ActionWrite, handler)
	}
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/quote", h.HandleQuote)
	cartRoutes.Get("/", can(h.HandleGetCart)...)
	cartRoutes.Delete("/", can(h.HandleClearCart)...)
	cartRoutes.Post("/items", can(h.HandleAddItem)...)
	cartRoutes.Put("/items/:productId", can(h.HandleUpdateItem)...)
	cartRoutes.Delete("/items/:productId", can(h.HandleRemoveItem)...)
}

// AddItemRequest is the body of an add-to-cart call.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Size      string `json:"size"`
}

// QuantityRequest is the body of a quantity change.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// HandleQuote prices a client-held cart.
func (h *CartHandler) HandleQuote(c *fiber.Ctx) error {
	var req cart.Cart
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return c.JSON(h.service.Quote(&req))
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.GetCart(middleware.ActorFrom(c).UserID))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	h.service.ClearCart(middleware.ActorFrom(c).UserID)
	return c.JSON(h.service.GetCart(middleware.ActorFrom(c).UserID))
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	view, err := h.service.AddItem(middleware.ActorFrom(c).UserID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(view)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req QuantityRequest
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	view, err := h.service.UpdateItem(middleware.ActorFrom(c).UserID, c.Params("productId"), c.Query("size"), req.Quantity)
	if err != nil {
		return fail(c, h.logger, err, "Cart item")
	}
	return c.JSON(view)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	view, err := h.service.RemoveItem(middleware.ActorFrom(c).UserID, c.Params("productId"), c.Query("size"))
	if err != nil {
		return fail(c, h.logger, err, "Cart item")
	}
	return c.JSON(view)
}
