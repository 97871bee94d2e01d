package services

import (
	"errors"

	"storefront/internal/models"
)

var (
	ErrNoOrderItems       = errors.New("no order items")
	ErrForbidden          = errors.New("not authorized to access this resource")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyInWishlist  = errors.New("product already in wishlist")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
