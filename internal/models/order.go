package models

import "time"

// OrderItem is a price and name snapshot of a product at purchase time.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement" bson:"-"`
	OrderID   string  `json:"-" gorm:"type:varchar(36);index" bson:"-"`
	ProductID string  `json:"product" gorm:"type:varchar(36)" bson:"product" validate:"required"`
	Name      string  `json:"name" bson:"name" validate:"required"`
	Quantity  int     `json:"quantity" bson:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" bson:"price" validate:"gte=0"` // Discounted unit price at the time of order
	Image     string  `json:"image" bson:"image"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	FullName string `json:"fullName" bson:"fullName" validate:"required"`
	Phone    string `json:"phone" bson:"phone" validate:"required"`
	Address  string `json:"address" bson:"address" validate:"required"`
	City     string `json:"city" bson:"city" validate:"required"`
	State    string `json:"state" bson:"state" validate:"required"`
	Pincode  string `json:"pincode" bson:"pincode" validate:"required"`
}

// PaymentInfo records the outcome of the payment step.
type PaymentInfo struct {
	PaymentID string `json:"paymentId" bson:"paymentId"`
	Method    string `json:"paymentMethod" bson:"paymentMethod"`
	Status    string `json:"status" bson:"status"`
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID          string          `json:"user" gorm:"type:varchar(36);index" bson:"user"`
	Items           []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_" bson:"shippingAddress"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo" gorm:"embedded;embeddedPrefix:payment_" bson:"paymentInfo"`
	ItemsPrice      float64         `json:"itemsPrice" bson:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalPrice"`
	Status          OrderStatus     `json:"orderStatus" gorm:"type:varchar(20);default:Pending" bson:"orderStatus"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
}

// OwnedBy reports whether the order was placed by userID.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}
