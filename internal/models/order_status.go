package models

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// position along the forward path; Cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Lifecycle decides which status changes an administrator may apply.
//
// In strict mode orders only move forward along
// Pending -> Processing -> Shipped -> Delivered, may be Cancelled from any
// non-terminal state, and never leave Delivered or Cancelled. Skipping
// intermediate states is allowed. With Strict unset any known status may be
// set from any other.
type Lifecycle struct {
	Strict bool
}

// Check returns nil when moving from -> to is allowed.
func (l Lifecycle) Check(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !l.Strict {
		return nil
	}
	switch {
	case from.Terminal():
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	case from == to:
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	case to == StatusCancelled:
		return nil
	case statusRank[to] < statusRank[from]:
		return fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ApplyStatus sets the status and stamps DeliveredAt when it becomes Delivered.
// No other field is touched.
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) {
	o.Status = status
	if status == StatusDelivered {
		delivered := now
		o.DeliveredAt = &delivered
	}
}
