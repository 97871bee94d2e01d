// Package payment defines the charge capability used at checkout and a
// simulated gateway that stands in for a real provider.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"
)

// ErrPaymentDeclined is returned when the gateway refuses a charge.
var ErrPaymentDeclined = errors.New("payment declined")

// DeclineRate is the share of charges the simulated gateway refuses.
const DeclineRate = 0.1

// ChargeRequest carries what the client submits from the payment form.
type ChargeRequest struct {
	Amount     float64 `json:"amount" validate:"gt=0"`
	CardNumber string  `json:"cardNumber" validate:"required"`
	CardName   string  `json:"cardName" validate:"required"`
	ExpiryDate string  `json:"expiryDate" validate:"required"`
	CVV        string  `json:"cvv" validate:"required"`
}

// ChargeResult is a successful charge.
type ChargeResult struct {
	PaymentID string `json:"paymentId"`
	Method    string `json:"paymentMethod"`
	Status    string `json:"status"`
}

// Gateway charges a payment method.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// MockGateway simulates a provider: it waits Delay, then declines with
// probability FailureRate.
type MockGateway struct {
	Delay       time.Duration
	FailureRate float64

	mu  sync.Mutex
	rnd *mathrand.Rand
}

// NewMockGateway creates a MockGateway seeded from the clock that declines
// DeclineRate of all charges.
func NewMockGateway(delay time.Duration) *MockGateway {
	return NewSeededMockGateway(delay, DeclineRate, time.Now().UnixNano())
}

// NewSeededMockGateway creates a MockGateway with a deterministic outcome sequence.
func NewSeededMockGateway(delay time.Duration, failureRate float64, seed int64) *MockGateway {
	return &MockGateway{
		Delay:       delay,
		FailureRate: failureRate,
		rnd:         mathrand.New(mathrand.NewSource(seed)),
	}
}

// Charge waits for the simulated processing delay and returns a result or
// ErrPaymentDeclined. It returns ctx.Err() if ctx ends first.
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if g.declined() {
		return nil, ErrPaymentDeclined
	}

	id, err := newPaymentID()
	if err != nil {
		return nil, err
	}
	return &ChargeResult{PaymentID: id, Method: "Card", Status: "Completed"}, nil
}

func (g *MockGateway) declined() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64() < g.FailureRate
}

func newPaymentID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment id: %w", err)
	}
	return "pay_" + hex.EncodeToString(buf), nil
}
