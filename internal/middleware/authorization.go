package middleware

import (
	"storefront/internal/authz"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequirePermission lets the request through when the caller's role may
// perform action on resource. It must run after AuthRequired.
func RequirePermission(authorizer *authz.Authorizer, resource, action string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if actor.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		allowed, err := authorizer.Allowed(actor.Role, resource, action)
		if err != nil {
			logger.Error("authorization check failed", zap.String("resource", resource), zap.String("action", action), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Authorization check failed",
			})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied",
			})
		}
		return c.Next()
	}
}

// Guard bundles authentication and authorization for route registration.
type Guard struct {
	auth       fiber.Handler
	authorizer *authz.Authorizer
	logger     *zap.Logger
}

// NewGuard creates a Guard.
func NewGuard(auth fiber.Handler, authorizer *authz.Authorizer, logger *zap.Logger) *Guard {
	return &Guard{auth: auth, authorizer: authorizer, logger: logger}
}

// Authenticated requires a valid token.
func (g *Guard) Authenticated() fiber.Handler {
	return g.auth
}

// Can wraps handler so it only runs for a valid token whose role may
// perform action on resource.
func (g *Guard) Can(resource, action string, handler fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.auth, RequirePermission(g.authorizer, resource, action, g.logger), handler}
}
