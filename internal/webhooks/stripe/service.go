package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/angelmondragon/shopfront-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

type orderCreator interface {
	CreateFromCheckout(ctx context.Context, completion orders.CheckoutCompletion) (*orders.OrderDTO, error)
}

type ServiceParams struct {
	Orders orderCreator
}

// Service turns verified payment gateway events into orders.
type Service struct {
	orders orderCreator
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order creator required")
	}
	return &Service{orders: params.Orders}, nil
}

// HandleEvent creates the card order of a completed checkout session.
// Every other event type is acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
	}
	completion, err := completionFromSession(&session)
	if err != nil {
		return err
	}
	_, err = s.orders.CreateFromCheckout(ctx, completion)
	return err
}

func completionFromSession(session *stripe.CheckoutSession) (orders.CheckoutCompletion, error) {
	cartID, err := uuid.Parse(strings.TrimSpace(session.ClientReferenceID))
	if err != nil {
		return orders.CheckoutCompletion{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "checkout session has no cart reference")
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	return orders.CheckoutCompletion{
		SessionID:       session.ID,
		CartID:          cartID,
		CustomerEmail:   email,
		AmountTotal:     session.AmountTotal,
		ShippingAddress: types.ShippingAddressFromMetadata(session.Metadata),
	}, nil
}
