package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/payment"
)

// PaymentService stages payment intents.
type PaymentService struct {
	log     *slog.Logger
	gateway payment.Gateway
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(log *slog.Logger, gateway payment.Gateway) *PaymentService {
	return &PaymentService{log: log, gateway: gateway}
}

// CreateIntent converts price to minor units and stages a card payment in
// the fixed currency. Gateway errors are returned as is; there is no retry.
func (s *PaymentService) CreateIntent(ctx context.Context, price string) (string, error) {
	const op = "service.PaymentService.CreateIntent"
	log := s.log.With(slog.String("op", op))

	amount, err := payment.MinorUnits(price)
	if err != nil {
		return "", err
	}

	secret, err := s.gateway.CreateIntent(ctx, amount, string(payment.Currency))
	if err != nil {
		log.Error("failed to create payment intent", slog.Int64("amount", amount), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("payment intent created", slog.Int64("amount", amount))
	return secret, nil
}
