package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// CheckoutSessionClient is the subset of the hosted checkout API the order flow needs.
type CheckoutSessionClient interface {
	Create(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type checkoutSessionWrapper struct{}

// NewCheckoutSessionClient wraps the package-level checkout session API once the client is configured.
func NewCheckoutSessionClient(api *Client) CheckoutSessionClient {
	if api == nil {
		return nil
	}
	return &checkoutSessionWrapper{}
}

func (w *checkoutSessionWrapper) Create(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}
