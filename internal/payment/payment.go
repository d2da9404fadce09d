// Package payment stages card payments with the external gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Currency is the fixed currency of every payment intent.
const Currency = stripe.CurrencyUSD

// Errors returned by MinorUnits and the gateways.
var (
	ErrInvalidAmount = errors.New("price must be a positive amount")
	ErrGateway       = errors.New("payment gateway error")
)

// MinorUnits converts a decimal price in currency units into integer
// minor units: multiply by 100 and truncate toward zero.
func MinorUnits(price string) (int64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, price)
	}
	minor := d.Shift(2).Truncate(0)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, price)
	}
	amount := minor.IntPart()
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, price)
	}
	return amount, nil
}

// Gateway creates a payment intent and returns its client secret.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// StripeGateway talks to the Stripe API with a secret key.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway bound to secretKey.
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateIntent stages a card payment for amount minor units.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	const op = "payment.StripeGateway.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrGateway, err)
	}
	return pi.ClientSecret, nil
}
