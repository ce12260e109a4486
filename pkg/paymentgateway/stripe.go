package paymentgateway

import (
	"context"
	"errors"
	"strconv"
	"time"

	"rendezvous.club/configs/configslog"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
)

// intentTimeout bounds intent creation so a dead provider cannot hang the
// checkout flow indefinitely.
const intentTimeout = 10 * time.Second

// StripeGateway creates PaymentIntents through the Stripe API.
type StripeGateway struct {
	api                 *client.API
	merchantDisplayName string
	timeout             time.Duration
}

// NewStripeGateway builds a gateway from the secret key. An empty key yields
// the Disabled gateway so callers never need a nil check.
func NewStripeGateway(secretKey, merchantDisplayName string) Gateway {
	if secretKey == "" {
		return Disabled{}
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:                 api,
		merchantDisplayName: merchantDisplayName,
		timeout:             intentTimeout,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, eventID uint, amountCents int64, currency string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(g.merchantDisplayName + " event ticket"),
	}
	params.Context = ctx
	params.AddMetadata("event_id", strconv.FormatUint(uint64(eventID), 10))

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			configslog.Log.Warn("Stripe intent creation timed out",
				zap.Uint("event_id", eventID), zap.Error(err))
			return nil, ErrGatewayTimeout
		}
		configslog.Log.Error("Stripe intent creation failed",
			zap.Uint("event_id", eventID), zap.Int64("amount_cents", amountCents), zap.Error(err))
		return nil, err
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
