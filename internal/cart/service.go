package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

var (
	ErrCartNotFound     = pkgerrors.New(pkgerrors.CodeNotFound, "There is no cart for this user")
	ErrCartItemNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "There is no item for this id")
	ErrProductNotFound  = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	ErrInvalidQuantity  = pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	ErrCartBusy         = pkgerrors.New(pkgerrors.CodeConflict, "cart is being updated, retry")
)

const defaultLockTTL = 5 * time.Second

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Locker serializes mutations of one user's cart.
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type couponRedeemer interface {
	Redeemable(ctx context.Context, name string, now time.Time) (*models.Coupon, error)
}

// Service exposes the cart pricing operations.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	ApplyCoupon(ctx context.Context, userID uuid.UUID, couponName string) (*CartDTO, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	ListAll(ctx context.Context, spec query.Spec) ([]CartDTO, pagination.Meta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CartDTO, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo     *Repository
	Tx       txRunner
	Locker   Locker
	Products productLoader
	Coupons  couponRedeemer
	LockTTL  time.Duration
	Now      func() time.Time
}

type service struct {
	repo     *Repository
	tx       txRunner
	locker   Locker
	products productLoader
	coupons  couponRedeemer
	lockTTL  time.Duration
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart locker required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product loader required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon redeemer required")
	}
	ttl := params.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		locker:   params.Locker,
		products: params.Products,
		coupons:  params.Coupons,
		lockTTL:  ttl,
		now:      now,
	}, nil
}

// AddItem creates the cart on first use. A line with the same product and
// color absorbs the quantity; the unit price is captured now.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	prod, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	color := strings.TrimSpace(req.Color)

	return s.mutate(ctx, userID, true, func(c *models.Cart) error {
		for i := range c.Items {
			if c.Items[i].ProductID == prod.ID && c.Items[i].Color == color {
				c.Items[i].Quantity += quantity
				return nil
			}
		}
		c.Items = append(c.Items, models.CartItem{
			ID:        uuid.New(),
			ProductID: prod.ID,
			Quantity:  quantity,
			Color:     color,
			Price:     prod.Price,
		})
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, userID, false, func(c *models.Cart) error {
		idx := indexOf(c.Items, itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return nil
	})
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, userID, false, func(c *models.Cart) error {
		idx := indexOf(c.Items, itemID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		c.Items[idx].Quantity = quantity
		return nil
	})
}

// Clear deletes the cart; a user without a cart is left as is.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	release, err := s.lock(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	c, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, c.ID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// ApplyCoupon takes the flat amount of a coupon valid at call time off the cart total.
// The next mutation drops the discount again.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, couponName string) (*CartDTO, error) {
	coupon, err := s.coupons.Redeemable(ctx, couponName, s.now())
	if err != nil {
		return nil, err
	}

	release, err := s.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.TotalItemsPrice = Total(c.Items)
	c.TotalItemsPriceAfterDiscount.Decimal = Discounted(c.TotalItemsPrice, coupon.Discount)
	c.TotalItemsPriceAfterDiscount.Valid = true
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return FromModel(c), nil
}

func (s *service) GetMine(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(c), nil
}

func (s *service) ListAll(ctx context.Context, spec query.Spec) ([]CartDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list carts")
	}
	out := make([]CartDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, meta, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CartDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(c), nil
}

// mutate runs fn on the user's cart under the cart lock, then reprices and
// persists it. create allows starting an empty cart.
func (s *service) mutate(ctx context.Context, userID uuid.UUID, create bool, fn func(c *models.Cart) error) (*CartDTO, error) {
	release, err := s.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.load(ctx, userID)
	switch {
	case errors.Is(err, ErrCartNotFound) && create:
		c = &models.Cart{ID: uuid.New(), UserID: userID}
	case err != nil:
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}
	reprice(c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return FromModel(c), nil
}

func (s *service) lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	name := "cart:" + userID.String()
	ok, err := s.locker.AcquireLock(ctx, name, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart lock")
	}
	if !ok {
		return nil, ErrCartBusy
	}
	return func() {
		_ = s.locker.ReleaseLock(context.WithoutCancel(ctx), name)
	}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	c, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, c *models.Cart) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, c)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	return nil
}

func indexOf(items []models.CartItem, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
