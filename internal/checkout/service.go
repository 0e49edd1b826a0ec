package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/cart"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	pkgstripe "github.com/angelmondragon/shopfront-backend/pkg/stripe"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var (
	ErrCartNotFound    = pkgerrors.New(pkgerrors.CodeNotFound, "There is no cart for this id")
	ErrNothingToCharge = pkgerrors.New(pkgerrors.CodeValidation, "Cart total must be greater than zero to pay by card")
)

// SessionResult is returned to the client, which redirects to URL.
type SessionResult struct {
	URL       string                  `json:"url"`
	SessionID string                  `json:"sessionId"`
	Session   *stripe.CheckoutSession `json:"session,omitempty"`
}

type cartLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
}

// Service opens hosted checkout sessions for carts. No order is stored
// until the gateway reports the payment.
type Service interface {
	CreateSession(ctx context.Context, identity pkgauth.Identity, cartID uuid.UUID, address types.ShippingAddress) (*SessionResult, error)
}

type ServiceParams struct {
	Carts      cartLoader
	Sessions   pkgstripe.CheckoutSessionClient
	Currency   string
	SuccessURL string
	CancelURL  string
	BaseURL    string
}

type service struct {
	carts      cartLoader
	sessions   pkgstripe.CheckoutSessionClient
	currency   string
	successURL string
	cancelURL  string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart loader required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout session client required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "egp"
	}
	base := strings.TrimRight(params.BaseURL, "/")
	success := strings.TrimSpace(params.SuccessURL)
	if success == "" {
		success = base + "/orders"
	}
	cancel := strings.TrimSpace(params.CancelURL)
	if cancel == "" {
		cancel = base + "/cart"
	}
	return &service{
		carts:      params.Carts,
		sessions:   params.Sessions,
		currency:   currency,
		successURL: success,
		cancelURL:  cancel,
	}, nil
}

// CreateSession charges the cart total as one line named after the buyer.
// The cart id and the shipping address travel with the session.
func (s *service) CreateSession(ctx context.Context, identity pkgauth.Identity, cartID uuid.UUID, address types.ShippingAddress) (*SessionResult, error) {
	c, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if c.UserID != identity.UserID {
		return nil, ErrCartNotFound
	}

	total := types.RoundMoney(cart.Payable(c))
	if !total.IsPositive() {
		return nil, ErrNothingToCharge
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(types.ToMinorUnits(total)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(identity.Name),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		CustomerEmail:     stripe.String(identity.Email),
		ClientReferenceID: stripe.String(c.ID.String()),
	}
	for key, value := range address.Metadata() {
		params.AddMetadata(key, value)
	}

	session, err := s.sessions.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return &SessionResult{URL: session.URL, SessionID: session.ID, Session: session}, nil
}
