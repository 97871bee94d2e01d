package models

import (
	"strings"
	"time"

	"storefront/internal/pricing"
)

// Categories lists every category a product may belong to.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Kitchen",
	"Books",
	"Accessories",
}

// IsValidCategory reports whether name is one of Categories.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Product represents a product in the store.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null" bson:"name" validate:"required,max=200"`
	Description string    `json:"description" bson:"description" validate:"required"`
	Price       float64   `json:"price" gorm:"not null" bson:"price" validate:"gte=0"`
	Discount    float64   `json:"discount" gorm:"default:0" bson:"discount" validate:"gte=0,lte=100"`
	Category    string    `json:"category" gorm:"type:varchar(50);index" bson:"category" validate:"required,category"`
	Brand       string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Images      []string  `json:"images" gorm:"serializer:json" bson:"images" validate:"required,min=1,dive,required"`
	Stock       int       `json:"stock" gorm:"default:0" bson:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`

	// DiscountedPrice is derived from Price and Discount and never stored.
	DiscountedPrice float64 `json:"discountedPrice" gorm:"-" bson:"-"`
}

// Normalize trims text fields and refreshes the derived discounted price.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Derive()
}

// Derive recomputes DiscountedPrice.
func (p *Product) Derive() {
	p.DiscountedPrice = pricing.DiscountedPrice(p.Price, p.Discount)
}
