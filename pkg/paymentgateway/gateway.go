// Package paymentgateway wraps the card-payment provider behind a small
// interface so the payment service can be exercised without network access.
package paymentgateway

import (
	"context"
	"errors"
)

var (
	// ErrGatewayDisabled is returned when no provider credentials were
	// configured; paid checkout is unavailable but the rest of the app runs.
	ErrGatewayDisabled = errors.New("payment gateway is not configured")

	// ErrGatewayTimeout is returned when intent creation exceeds its
	// client-side deadline. Surfaced to members as a connectivity problem.
	ErrGatewayTimeout = errors.New("payment provider did not respond in time")
)

// Intent is the provider-side pre-authorized charge the mobile payment
// sheet is initialized with.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway creates payment intents for event tickets.
type Gateway interface {
	// CreateIntent pre-authorizes a charge of amountCents in the given
	// ISO currency, tagged with the event id for reconciliation.
	CreateIntent(ctx context.Context, eventID uint, amountCents int64, currency string) (*Intent, error)
}

// Disabled is the gateway used when no credentials are configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, uint, int64, string) (*Intent, error) {
	return nil, ErrGatewayDisabled
}
