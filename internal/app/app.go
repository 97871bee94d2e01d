// Package app assembles the storefront HTTP application from its parts.
package app

import (
	"errors"
	"time"

	"storefront/internal/authz"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/pricing"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the collaborators the application is built from. Publisher and
// Gateway are optional.
type Deps struct {
	Config    *config.Config
	Repos     *repositories.Repositories
	Publisher services.EventPublisher
	Gateway   payment.Gateway
	Carts     cart.Store
	Logger    *zap.Logger
}

// Server is the assembled application.
type Server struct {
	App  *fiber.App
	Auth *services.AuthService
}

// New wires services and handlers and registers every route.
func New(deps Deps) (*Server, error) {
	cfg, log := deps.Config, deps.Logger
	if deps.Gateway == nil {
		deps.Gateway = payment.NewMockGateway(cfg.PaymentDelay)
	}
	if deps.Carts == nil {
		deps.Carts = cart.NewMemoryStore()
	}

	authorizer, err := authz.New()
	if err != nil {
		return nil, err
	}

	policy := pricing.Policy{FlatFee: cfg.ShippingFlatFee, FreeShippingThreshold: cfg.ShippingFreeThreshold}
	lifecycle := models.Lifecycle{Strict: cfg.StrictOrderTransitions}
	repos := deps.Repos

	authService := services.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL, log)
	productService := services.NewProductService(repos.Products, log)
	orderService := services.NewOrderService(repos.Orders, policy, lifecycle, deps.Carts, deps.Publisher, log)
	profileService := services.NewProfileService(repos.Users, repos.Products, log)
	cartService := services.NewCartService(deps.Carts, repos.Products, policy, log)
	paymentService := services.NewPaymentService(deps.Gateway, log)
	exportService := services.NewExportService(repos.Products, repos.Orders)

	guard := middleware.NewGuard(middleware.AuthRequired(authService, log), authorizer, log)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": cfg.DBDriver,
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, guard, log).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, guard, log).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, guard, log).RegisterRoutes(apiV1)
	handlers.NewProfileHandler(profileService, guard, log).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, guard, log).RegisterRoutes(apiV1)
	handlers.NewPaymentHandler(paymentService, guard, log).RegisterRoutes(apiV1)
	handlers.NewExportHandler(exportService, guard, log).RegisterRoutes(apiV1)

	return &Server{App: app, Auth: authService}, nil
}

// errorHandler answers framework errors (unknown routes, recovered panics)
// in the same JSON shape as the handlers.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
