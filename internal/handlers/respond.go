package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewValidator returns a validator that reports JSON field names and knows
// the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	return v
}

// decode parses the JSON body into dst and validates it. On failure it
// returns the 400 payload to send.
func decode(c *fiber.Ctx, v *validator.Validate, dst interface{}) (fiber.Map, bool) {
	if err := c.BodyParser(dst); err != nil {
		return fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}, false
	}
	return check(v, dst)
}

// check validates dst, returning the 400 payload to send on failure.
func check(v *validator.Validate, dst interface{}) (fiber.Map, bool) {
	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fiber.Map{"message": "Validation failed", "error": err.Error()}, false
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Namespace()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		}, false
	}
	return nil, true
}

type errorMapping struct {
	target error
	status int
	// wrapped reports the full error chain instead of just the sentinel text.
	wrapped bool
}

var errorMappings = []errorMapping{
	{target: repositories.ErrNotFound, status: fiber.StatusNotFound},
	{target: services.ErrNoOrderItems, status: fiber.StatusBadRequest},
	{target: services.ErrEmailTaken, status: fiber.StatusBadRequest},
	{target: services.ErrAlreadyInWishlist, status: fiber.StatusBadRequest},
	{target: services.ErrInvalidCredentials, status: fiber.StatusUnauthorized},
	{target: services.ErrForbidden, status: fiber.StatusForbidden},
	{target: models.ErrInvalidStatus, status: fiber.StatusBadRequest, wrapped: true},
	{target: models.ErrInvalidTransition, status: fiber.StatusConflict, wrapped: true},
	{target: payment.ErrPaymentDeclined, status: fiber.StatusBadRequest},
	{target: cart.ErrInvalidQuantity, status: fiber.StatusBadRequest},
	{target: cart.ErrOutOfStock, status: fiber.StatusBadRequest},
	{target: cart.ErrItemNotFound, status: fiber.StatusNotFound},
}

// fail writes the response for a service error. Known errors become client
// errors; anything else is logged and reported as a server error.
func fail(c *fiber.Ctx, logger *zap.Logger, err error, subject string) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.target.Error()
		switch {
		case m.target == repositories.ErrNotFound:
			message = subject + " not found"
		case m.wrapped:
			message = err.Error()
		}
		return c.Status(m.status).JSON(fiber.Map{"message": sentence(message)})
	}

	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Server error",
		"error":   err.Error(),
	})
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
