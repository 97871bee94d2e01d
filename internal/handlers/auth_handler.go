package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	guard       *middleware.Guard
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, guard *middleware.Guard, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guard:       guard,
		validate:    NewValidator(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", h.guard.Authenticated(), h.HandleMe)
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupInput
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	result, err := h.authService.Signup(req)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if resp, ok := decode(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// HandleMe returns the authenticated account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.Me(middleware.ActorFrom(c).UserID)
	if err != nil {
		return fail(c, h.logger, err, "User")
	}
	return c.JSON(user)
}
