package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var (
	ErrReviewNotFound  = pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	ErrAlreadyReviewed = pkgerrors.New(pkgerrors.CodeConflict, "You already created a review before")
	ErrNotReviewOwner  = pkgerrors.New(pkgerrors.CodeForbidden, "You are not allowed to perform this action")
	ErrProductNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
)

// Service manages reviews and keeps the product rating aggregate current.
type Service interface {
	Create(ctx context.Context, identity pkgauth.Identity, req CreateReviewRequest) (*ReviewDTO, error)
	List(ctx context.Context, productID *uuid.UUID, spec query.Spec) ([]ReviewDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	Update(ctx context.Context, identity pkgauth.Identity, id uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, identity pkgauth.Identity, id uuid.UUID) error
	RecomputeProductRating(ctx context.Context, productID uuid.UUID) error
}

type reviewRepository interface {
	Insert(ctx context.Context, row *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID *uuid.UUID, spec query.Spec) ([]models.Review, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Aggregate(ctx context.Context, productID uuid.UUID) (float64, int, error)
	UserNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// productRatings is the slice of the product repository reviews write to.
type productRatings interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SetRating(ctx context.Context, productID uuid.UUID, average decimal.Decimal, count int) error
}

type ServiceParams struct {
	Repo     reviewRepository
	Products productRatings
}

type service struct {
	repo     reviewRepository
	products productRatings
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "review repository required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product ratings required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) Create(ctx context.Context, identity pkgauth.Identity, req CreateReviewRequest) (*ReviewDTO, error) {
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review must belong to a product")
	}
	ok, err := s.products.Exists(ctx, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	row := &models.Review{
		ID:        uuid.New(),
		Title:     trimmed(req.Title),
		Rating:    req.Rating,
		UserID:    identity.UserID,
		ProductID: req.ProductID,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrAlreadyReviewed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	if err := s.RecomputeProductRating(ctx, row.ProductID); err != nil {
		return nil, err
	}
	return FromModel(row, identity.Name), nil
}

func (s *service) List(ctx context.Context, productID *uuid.UUID, spec query.Spec) ([]ReviewDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.ListByProduct(ctx, productID, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	names, err := s.repo.UserNames(ctx, userIDs)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join reviewers")
	}

	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], names[rows[i].UserID]))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, row)
}

// Update is allowed to the author only.
func (s *service) Update(ctx context.Context, identity pkgauth.Identity, id uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != identity.UserID {
		return nil, ErrNotReviewOwner
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = trimmed(req.Title)
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if len(updates) == 0 {
		return s.present(ctx, current)
	}

	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
	}
	if err := s.RecomputeProductRating(ctx, row.ProductID); err != nil {
		return nil, err
	}
	return s.present(ctx, row)
}

// Delete is allowed to the author, or to staff for any review.
func (s *service) Delete(ctx context.Context, identity pkgauth.Identity, id uuid.UUID) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !identity.IsStaff() && current.UserID != identity.UserID {
		return ErrNotReviewOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	return s.RecomputeProductRating(ctx, current.ProductID)
}

// RecomputeProductRating stores AVG(rating) rounded to two places and the
// review count on the product, or 0/0 when no reviews remain.
func (s *service) RecomputeProductRating(ctx context.Context, productID uuid.UUID) error {
	average, count, err := s.repo.Aggregate(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}
	rounded := decimal.Zero
	if count > 0 {
		rounded = types.RoundMoney(decimal.NewFromFloat(average))
	}
	if err := s.products.SetRating(ctx, productID, rounded, count); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store product rating")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	return row, nil
}

func (s *service) present(ctx context.Context, row *models.Review) (*ReviewDTO, error) {
	names, err := s.repo.UserNames(ctx, []uuid.UUID{row.UserID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join reviewer")
	}
	return FromModel(row, names[row.UserID]), nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
