package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/cart"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var (
	ErrOrderNotFound  = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	ErrCartNotFound   = pkgerrors.New(pkgerrors.CodeNotFound, "There is no cart for this id")
	ErrCartEmpty      = pkgerrors.New(pkgerrors.CodeValidation, "cart has no items")
	ErrOrderForbidden = pkgerrors.New(pkgerrors.CodeForbidden, "You are not allowed to access this order")
	ErrSessionOrdered = pkgerrors.New(pkgerrors.CodeConflict, "an order already exists for this checkout session")
)

// Tax and shipping are fixed at zero.
var (
	taxPrice      = decimal.Zero
	shippingPrice = decimal.Zero
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryAdjuster moves sold units out of stock for one product.
type InventoryAdjuster interface {
	AdjustInventory(ctx context.Context, productID uuid.UUID, qty int) error
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// CheckoutCompletion is what a completed hosted checkout reports.
type CheckoutCompletion struct {
	SessionID       string
	CartID          uuid.UUID
	CustomerEmail   string
	AmountTotal     int64
	ShippingAddress types.ShippingAddress
}

// Service creates orders from carts and manages their lifecycle.
type Service interface {
	CreateCashOrder(ctx context.Context, identity pkgauth.Identity, cartID uuid.UUID, address types.ShippingAddress) (*OrderDTO, error)
	CreateFromCheckout(ctx context.Context, completion CheckoutCompletion) (*OrderDTO, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, identity pkgauth.Identity, spec query.Spec) ([]OrderDTO, pagination.Meta, error)
	ListAll(ctx context.Context, spec query.Spec) ([]OrderDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Delete(ctx context.Context, identity pkgauth.Identity, id uuid.UUID) error
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo      *Repository
	Tx        txRunner
	Carts     cartStore
	Inventory InventoryAdjuster
	Users     userFinder
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	BaseURL   string
	Now       func() time.Time
}

type service struct {
	repo      *Repository
	tx        txRunner
	carts     cartStore
	inventory InventoryAdjuster
	users     userFinder
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	baseURL   string
	now       func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository required")
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	case params.Carts == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	case params.Inventory == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory adjuster required")
	case params.Users == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user finder required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		carts:     params.Carts,
		inventory: params.Inventory,
		users:     params.Users,
		metrics:   params.Metrics,
		logg:      params.Logger,
		baseURL:   params.BaseURL,
		now:       now,
	}, nil
}

// CreateCashOrder turns the caller's cart into an unpaid cash order.
func (s *service) CreateCashOrder(ctx context.Context, identity pkgauth.Identity, cartID uuid.UUID, address types.ShippingAddress) (*OrderDTO, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.UserID != identity.UserID {
		return nil, ErrCartNotFound
	}

	order := s.orderFromCart(c, identity.UserID, address)
	order.PaymentMethod = enums.PaymentMethodCash
	order.TotalOrderPrice = types.RoundMoney(cart.Payable(c).Add(taxPrice).Add(shippingPrice))
	return s.place(ctx, c, order)
}

// CreateFromCheckout records the paid card order of a completed checkout.
// The amount charged by the gateway is taken as the order total.
func (s *service) CreateFromCheckout(ctx context.Context, completion CheckoutCompletion) (*OrderDTO, error) {
	c, err := s.loadCart(ctx, completion.CartID)
	if err != nil {
		return nil, err
	}

	userID := c.UserID
	if email := strings.TrimSpace(completion.CustomerEmail); email != "" {
		user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
		switch {
		case err == nil:
			userID = user.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find checkout customer")
		}
	}

	paidAt := s.now().UTC()
	sessionID := completion.SessionID
	order := s.orderFromCart(c, userID, completion.ShippingAddress)
	order.PaymentMethod = enums.PaymentMethodCard
	order.TotalOrderPrice = types.FromMinorUnits(completion.AmountTotal)
	order.IsPaid = order.PaymentMethod.PaidOnCreation()
	order.PaidAt = &paidAt
	if sessionID != "" {
		order.CheckoutSessionID = &sessionID
	}
	return s.place(ctx, c, order)
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.setFlag(ctx, id, "is_paid", "paid_at")
}

func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.setFlag(ctx, id, "is_delivered", "delivered_at")
}

func (s *service) ListMine(ctx context.Context, identity pkgauth.Identity, spec query.Spec) ([]OrderDTO, pagination.Meta, error) {
	userID := identity.UserID
	return s.list(ctx, &userID, spec)
}

func (s *service) ListAll(ctx context.Context, spec query.Spec) ([]OrderDTO, pagination.Meta, error) {
	return s.list(ctx, nil, spec)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, order)
}

// Delete is allowed to the buyer and to staff.
func (s *service) Delete(ctx context.Context, identity pkgauth.Identity, id uuid.UUID) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !identity.IsStaff() && order.UserID != identity.UserID {
		return ErrOrderForbidden
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

func (s *service) orderFromCart(c *models.Cart, userID uuid.UUID, address types.ShippingAddress) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		ShippingAddress: address,
		Items:           make([]models.OrderItem, 0, len(c.Items)),
	}
	for i, item := range c.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Price:     item.Price,
			Position:  i,
		})
	}
	return order
}

// place commits the order with its lines, then applies inventory and drops
// the cart. Steps after the commit are best effort and only logged.
func (s *service) place(ctx context.Context, c *models.Cart, order *models.Order) (*OrderDTO, error) {
	if len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Insert(ctx, order)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrSessionOrdered
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	var inventoryErr error
	for _, item := range order.Items {
		if err := s.inventory.AdjustInventory(ctx, item.ProductID, item.Quantity); err != nil {
			inventoryErr = multierr.Append(inventoryErr, fmt.Errorf("product %s: %w", item.ProductID, err))
		}
	}
	if inventoryErr != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"failed_updates": len(multierr.Errors(inventoryErr)),
		})
		s.logg.Error(logCtx, "order inventory update incomplete", inventoryErr)
	}

	if err := s.carts.Delete(ctx, c.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logCtx := s.logg.WithFields(ctx, map[string]any{"order_id": order.ID.String(), "cart_id": c.ID.String()})
		s.logg.Error(logCtx, "failed to delete ordered cart", err)
	}

	s.metrics.IncCreated(order.PaymentMethod.String())
	return s.present(ctx, order)
}

func (s *service) setFlag(ctx context.Context, id uuid.UUID, flag, atColumn string) (*OrderDTO, error) {
	if err := s.repo.SetFlag(ctx, id, flag, atColumn, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	return s.Get(ctx, id)
}

func (s *service) list(ctx context.Context, userID *uuid.UUID, spec query.Spec) ([]OrderDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, userID, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	joined, err := s.refsFor(ctx, rows...)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, joined.present(&rows[i]))
	}
	return out, meta, nil
}

func (s *service) present(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	joined, err := s.refsFor(ctx, *order)
	if err != nil {
		return nil, err
	}
	dto := joined.present(order)
	return &dto, nil
}

func (s *service) refsFor(ctx context.Context, orders ...models.Order) (refs, error) {
	productIDs := []uuid.UUID{}
	userIDs := []uuid.UUID{}
	for _, order := range orders {
		userIDs = append(userIDs, order.UserID)
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := s.repo.ProductRefs(ctx, productIDs)
	if err != nil {
		return refs{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join order products")
	}
	users, err := s.repo.UserRefs(ctx, userIDs)
	if err != nil {
		return refs{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join order users")
	}
	return refs{products: products, users: users, baseURL: s.baseURL}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) loadCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	c, err := s.carts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return c, nil
}
