package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/payment"

	"go.uber.org/zap"
)

// PaymentService runs checkout charges through a gateway.
type PaymentService struct {
	gateway payment.Gateway
	logger  *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(gateway payment.Gateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{gateway: gateway, logger: logger}
}

// ProcessPayment charges req.Amount for actor.
func (s *PaymentService) ProcessPayment(ctx context.Context, actor Actor, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	result, err := s.gateway.Charge(ctx, req)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentDeclined) {
			s.logger.Info("payment declined", zap.String("user_id", actor.UserID), zap.Float64("amount", req.Amount))
			return nil, err
		}
		return nil, fmt.Errorf("payment failed: %w", err)
	}
	s.logger.Info("payment completed",
		zap.String("user_id", actor.UserID),
		zap.String("payment_id", result.PaymentID),
		zap.Float64("amount", req.Amount))
	return result, nil
}
