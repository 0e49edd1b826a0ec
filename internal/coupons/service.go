package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var (
	ErrCouponNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	ErrCouponExpired  = pkgerrors.New(pkgerrors.CodeValidation, "coupon is expired")
	ErrCouponExists   = pkgerrors.New(pkgerrors.CodeConflict, "coupon name already exists")
)

type Service interface {
	Create(ctx context.Context, req CreateCouponRequest) (*CouponDTO, error)
	List(ctx context.Context, spec query.Spec) ([]CouponDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Redeemable returns the named coupon when it has not expired at now.
	Redeemable(ctx context.Context, name string, now time.Time) (*models.Coupon, error)
}

type couponRepository interface {
	Insert(ctx context.Context, row *models.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	FindByName(ctx context.Context, name string) (*models.Coupon, error)
	List(ctx context.Context, spec query.Spec, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Coupon, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceParams struct {
	Repo couponRepository
}

type service struct {
	repo couponRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon repository required")
	}
	return &service{repo: params.Repo}, nil
}

// NormalizeName trims and uppercases a coupon name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (*CouponDTO, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon name required")
	}
	if req.Expire == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon expire time required")
	}
	row := &models.Coupon{
		ID:        uuid.New(),
		Name:      name,
		ExpiresAt: req.Expire.UTC(),
		Discount:  types.RoundMoney(decimal.NewFromFloat(req.Discount)),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, mapWriteError(err, "create coupon")
	}
	return FromModel(row), nil
}

func (s *service) List(ctx context.Context, spec query.Spec) ([]CouponDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	out := make([]CouponDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load coupon")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := NormalizeName(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon name required")
		}
		updates["name"] = name
	}
	if req.Expire != nil {
		updates["expires_at"] = req.Expire.UTC()
	}
	if req.Discount != nil {
		updates["discount"] = types.RoundMoney(decimal.NewFromFloat(*req.Discount))
	}
	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, mapWriteError(err, "update coupon")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete coupon")
	}
	return nil
}

func (s *service) Redeemable(ctx context.Context, name string, now time.Time) (*models.Coupon, error) {
	coupon, err := s.repo.FindByName(ctx, NormalizeName(name))
	if err != nil {
		return nil, mapWriteError(err, "load coupon")
	}
	if !now.Before(coupon.ExpiresAt) {
		return nil, ErrCouponExpired
	}
	return coupon, nil
}

func mapWriteError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrCouponNotFound
	case db.IsUniqueViolation(err, ""):
		return ErrCouponExists
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
}
