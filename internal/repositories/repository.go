package repositories

import (
	"errors"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that finds no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is wrapped when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	Find(plan catalog.Plan) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}

// OrderRepository defines the interface for order data access.
// Orders are never deleted; only their status changes after creation.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// UpdateStatus writes the status and, when deliveredAt is non-nil, the
	// delivery time. Nothing else changes.
	UpdateStatus(id string, status models.OrderStatus, deliveredAt *time.Time) error
}

// Repositories bundles one implementation of each repository.
type Repositories struct {
	Products ProductRepository
	Users    UserRepository
	Orders   OrderRepository
	// Close releases the underlying connection, if any.
	Close func() error
}
