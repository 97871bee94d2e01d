package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/authz"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	log := zap.NewNop()
	authService := services.NewAuthService(repositories.NewMemoryUserRepository(), "test_secret", time.Hour, log)
	authorizer, err := authz.New()
	require.NoError(t, err)
	guard := middleware.NewGuard(middleware.AuthRequired(authService, log), authorizer, log)

	app := fiber.New()
	app.Get("/me", guard.Authenticated(), func(c *fiber.Ctx) error {
		actor := middleware.ActorFrom(c)
		return c.SendString(actor.UserID + ":" + actor.Role)
	})
	app.Get("/exports", guard.Can(authz.ResourceExports, authz.ActionRead, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})...)
	return app, authService
}

func get(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	app, authService := setup(t)
	token, err := authService.GenerateToken(&models.User{ID: "u1", Email: "a@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "Token "+token))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "Bearer garbage"))
	assert.Equal(t, http.StatusOK, get(t, app, "/me", "Bearer "+token))

	other := services.NewAuthService(repositories.NewMemoryUserRepository(), "other_secret", time.Hour, zap.NewNop())
	forged, err := other.GenerateToken(&models.User{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "Bearer "+forged))
}

func TestGuard_Can(t *testing.T) {
	app, authService := setup(t)
	userToken, err := authService.GenerateToken(&models.User{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, err := authService.GenerateToken(&models.User{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/exports", ""))
	assert.Equal(t, http.StatusForbidden, get(t, app, "/exports", "Bearer "+userToken))
	assert.Equal(t, http.StatusOK, get(t, app, "/exports", "Bearer "+adminToken))
}
