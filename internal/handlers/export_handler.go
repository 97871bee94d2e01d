package handlers

import (
	"storefront/internal/authz"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves admin spreadsheet downloads.
type ExportHandler struct {
	service *services.ExportService
	guard   *middleware.Guard
	logger  *zap.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(service *services.ExportService, guard *middleware.Guard, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{service: service, guard: guard, logger: logger}
}

// RegisterRoutes registers the export routes with the Fiber app.
func (h *ExportHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/products/export", h.guard.Can(authz.ResourceExports, authz.ActionRead, h.HandleExportProducts)...)
	adminRoutes.Get("/orders/export", h.guard.Can(authz.ResourceExports, authz.ActionRead, h.HandleExportOrders)...)
}

func (h *ExportHandler) HandleExportProducts(c *fiber.Ctx) error {
	data, err := h.service.ExportProducts()
	if err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return sendWorkbook(c, "products.xlsx", data)
}

func (h *ExportHandler) HandleExportOrders(c *fiber.Ctx) error {
	data, err := h.service.ExportOrders()
	if err != nil {
		return fail(c, h.logger, err, "Order")
	}
	return sendWorkbook(c, "orders.xlsx", data)
}

func sendWorkbook(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(data)
}
