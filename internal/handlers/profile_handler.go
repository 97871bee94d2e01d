package handlers

import (
	"errors"

	"storefront/internal/authz"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProfileHandler serves the caller's own account and wishlist.
type ProfileHandler struct {
	service  *services.ProfileService
	guard    *middleware.Guard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService, guard *middleware.Guard, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		guard:    guard,
		validate: NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	can := func(handler fiber.Handler) []fiber.Handler {
		return h.guard.Can(authz.ResourceProfile, authz.ActionWrite, handler)
	}
	profileRoutes := router.Group("/profile")
	profileRoutes.Get("/", can(h.HandleGetProfile)...)
	profileRoutes.Put("/", can(h.HandleUpdateProfile)...)
	profileRoutes.Put("/password", can(h.HandleChangePassword)...)
	profileRoutes.Get("/wishlist", can(h.HandleGetWishlist)...)
	profileRoutes.Post("/wishlist/:productId", can(h.HandleAddToWishlist)...)
	profileRoutes.Delete("/wishlist/:productId", can(h.HandleRemoveFromWishlist)...)
}

func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(middleware.ActorFrom(c).UserID)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(user)
}

func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	user, err := h.service.UpdateProfile(middleware.ActorFrom(c).UserID, req)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *ProfileHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req services.PasswordChange
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if err := h.service.ChangePassword(middleware.ActorFrom(c).UserID, req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Current password is incorrect"})
		}
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (h *ProfileHandler) HandleGetWishlist(c *fiber.Ctx) error {
	products, err := h.service.Wishlist(middleware.ActorFrom(c).UserID)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(products)
}

func (h *ProfileHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	wishlist, err := h.service.AddToWishlist(middleware.ActorFrom(c).UserID, c.Params("productId"))
	if err != nil {
		return fail(c, h.logger, err, "Product")
	}
	return c.JSON(fiber.Map{
		"message":  "Product added to wishlist",
		"wishlist": wishlist,
	})
}

func (h *ProfileHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	wishlist, err := h.service.RemoveFromWishlist(middleware.ActorFrom(c).UserID, c.Params("productId"))
	if err != nil {
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(fiber.Map{
		"message":  "Product removed from wishlist",
		"wishlist": wishlist,
	})
}
