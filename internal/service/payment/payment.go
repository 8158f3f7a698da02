// Package payment defines the two-phase purchase protocol: a payment is
// authorized first and credits are granted only after the capture is
// confirmed. No real gateway is integrated; the simulated processor stands
// where one would go, so the grant path never trusts client-side intent
// alone.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Processor interface {
	// Authorize places a hold for the amount and returns an authorization id
	// Has to return apperrors.ErrPaymentDeclined when the hold is refused
	Authorize(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (string, error)

	// Capture settles a previously authorized payment
	Capture(ctx context.Context, authorizationID string) error
}

// Simulated approves everything and settles nothing. It exists so the
// purchase flow exercises the authorize/capture protocol end to end.
type Simulated struct{}

func (Simulated) Authorize(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("refusing to authorize negative amount %s", amount)
	}
	return "sim-" + uuid.NewString(), nil
}

func (Simulated) Capture(ctx context.Context, authorizationID string) error {
	if authorizationID == "" {
		return fmt.Errorf("empty authorization id")
	}
	return nil
}
