package handlers

import (
	"errors"

	"storefront/internal/authz"
	"storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler runs the checkout payment step.
type PaymentHandler struct {
	service  *services.PaymentService
	guard    *middleware.Guard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, guard *middleware.Guard, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		guard:    guard,
		validate: NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Group("/payment").Post("/process", h.guard.Can(authz.ResourcePayment, authz.ActionCreate, h.HandleProcess)...)
}

// HandleProcess charges the posted card. A declined charge is a 400 the
// client may retry.
func (h *PaymentHandler) HandleProcess(c *fiber.Ctx) error {
	var req payment.ChargeRequest
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	result, err := h.service.ProcessPayment(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentDeclined) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Payment failed. Please try again.",
			})
		}
		return fail(c, h.logger, err, "Payment")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Payment processed successfully",
		"paymentId":     result.PaymentID,
		"paymentMethod": result.Method,
		"status":        result.Status,
	})
}
