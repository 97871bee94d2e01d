package handlers

import (
	"storefront/internal/authz"
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	guard    *middleware.Guard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, guard *middleware.Guard, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		guard:    guard,
		validate: NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes
// need product write permission.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.guard.Can(authz.ResourceProducts, authz.ActionWrite, h.HandleCreateProduct)...)
	productRoutes.Put("/:id", h.guard.Can(authz.ResourceProducts, authz.ActionWrite, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", h.guard.Can(authz.ResourceProducts, authz.ActionWrite, h.HandleDeleteProduct)...)
}

// HandleListProducts lists products matching the query filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := catalog.ParseFilter(func(key string) string { return c.Query(key) })

	products, err := h.service.ListProducts(filter)
	if err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(products)
}

// HandleGetProduct returns one product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if resp, ok := decode(c, h.validate, &product); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product's editable fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if resp, ok := decode(c, h.validate, &product); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if err := h.service.UpdateProduct(c.Params("id"), &product); err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
