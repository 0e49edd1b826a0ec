package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/shopfront-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var ErrProductNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")

// Service exposes catalog product management.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	List(ctx context.Context, spec query.Spec) ([]ProductDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	Insert(ctx context.Context, row *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, spec query.Spec, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Product, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CategoryNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	Reviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type existenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type subcategoryChecker interface {
	AllBelongTo(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) (bool, error)
}

// ServiceParams bundles the product service dependencies.
type ServiceParams struct {
	Repo          productRepository
	Categories    existenceChecker
	Subcategories subcategoryChecker
	Brands        existenceChecker
	BaseURL       string
}

type service struct {
	repo          productRepository
	categories    existenceChecker
	subcategories subcategoryChecker
	brands        existenceChecker
	baseURL       string
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	if params.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category checker required")
	}
	if params.Subcategories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subcategory checker required")
	}
	if params.Brands == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "brand checker required")
	}
	return &service{
		repo:          params.Repo,
		categories:    params.Categories,
		subcategories: params.Subcategories,
		brands:        params.Brands,
		baseURL:       params.BaseURL,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if req.Quantity == nil || req.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity and price are required")
	}
	price := types.RoundMoney(decimal.NewFromFloat(*req.Price))
	discounted, err := discountedPrice(req.PriceAfterDiscount, price)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.Category, req.Subcategories, req.Brand); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	row := &models.Product{
		ID:                 uuid.New(),
		Title:              title,
		Slug:               slug.Make(title),
		Description:        req.Description,
		Quantity:           *req.Quantity,
		Price:              price,
		PriceAfterDiscount: discounted,
		Colors:             dbtypes.StringArray(nonNilStrings(req.Colors)),
		ImageCover:         strings.TrimSpace(req.ImageCover),
		Images:             dbtypes.StringArray(nonNilStrings(req.Images)),
		CategoryID:         req.Category,
		SubcategoryIDs:     dbtypes.UUIDArray(dedupe(req.Subcategories)),
		BrandID:            req.Brand,
		RatingsAverage:     decimal.Zero,
	}
	if req.Sold != nil {
		row.Sold = *req.Sold
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.present(ctx, row, false)
}

func (s *service) List(ctx context.Context, spec query.Spec) ([]ProductDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	categoryIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		categoryIDs = append(categoryIDs, row.CategoryID)
	}
	names, err := s.repo.CategoryNames(ctx, categoryIDs)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join categories")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], names[rows[i].CategoryID], s.baseURL))
	}
	return out, meta, nil
}

// Get returns the product with its category name and reviews joined.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, row, true)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		updates["title"] = title
		updates["slug"] = slug.Make(title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Sold != nil {
		updates["sold"] = *req.Sold
	}

	price := current.Price
	if req.Price != nil {
		price = types.RoundMoney(decimal.NewFromFloat(*req.Price))
		updates["price"] = price
	}
	switch {
	case req.PriceAfterDiscount != nil:
		discounted, err := discountedPrice(req.PriceAfterDiscount, price)
		if err != nil {
			return nil, err
		}
		updates["price_after_discount"] = discounted
	case req.Price != nil && current.PriceAfterDiscount.Valid && !current.PriceAfterDiscount.Decimal.LessThan(price):
		return nil, discountError(current.PriceAfterDiscount.Decimal, price)
	}

	if req.Colors != nil {
		updates["colors"] = dbtypes.StringArray(nonNilStrings(*req.Colors))
	}
	if req.ImageCover != nil {
		updates["image_cover"] = strings.TrimSpace(*req.ImageCover)
	}
	if req.Images != nil {
		updates["images"] = dbtypes.StringArray(nonNilStrings(*req.Images))
	}

	if req.Category != nil || req.Subcategories != nil || req.Brand != nil {
		categoryID := current.CategoryID
		if req.Category != nil {
			categoryID = *req.Category
			updates["category_id"] = categoryID
		}
		subcategories := []uuid.UUID(current.SubcategoryIDs)
		if req.Subcategories != nil {
			subcategories = dedupe(*req.Subcategories)
			updates["subcategory_ids"] = dbtypes.UUIDArray(subcategories)
		}
		if req.Brand != nil {
			updates["brand_id"] = *req.Brand
		}
		if err := s.checkReferences(ctx, categoryID, subcategories, req.Brand); err != nil {
			return nil, err
		}
	}

	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.present(ctx, row, false)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return row, nil
}

func (s *service) present(ctx context.Context, row *models.Product, withReviews bool) (*ProductDTO, error) {
	names, err := s.repo.CategoryNames(ctx, []uuid.UUID{row.CategoryID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join category")
	}
	dto := FromModel(row, names[row.CategoryID], s.baseURL)
	if !withReviews {
		return dto, nil
	}

	reviews, err := s.repo.Reviews(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join reviews")
	}
	dto.Reviews = make([]ReviewSummary, 0, len(reviews))
	for _, review := range reviews {
		dto.Reviews = append(dto.Reviews, ReviewSummary{
			ID:        review.ID,
			Title:     review.Title,
			Rating:    review.Rating,
			UserID:    review.UserID,
			CreatedAt: review.CreatedAt,
		})
	}
	return dto, nil
}

// checkReferences validates the category, its subcategories and the optional brand.
func (s *service) checkReferences(ctx context.Context, categoryID uuid.UUID, subcategories []uuid.UUID, brandID *uuid.UUID) error {
	problems := map[string]string{}

	if categoryID == uuid.Nil {
		problems["category"] = "Category Id must be specified"
	} else {
		ok, err := s.categories.Exists(ctx, categoryID)
		if err != nil {
			return err
		}
		if !ok {
			problems["category"] = fmt.Sprintf("No category for this id: %s", categoryID)
		} else if len(subcategories) > 0 {
			belong, err := s.subcategories.AllBelongTo(ctx, categoryID, subcategories)
			if err != nil {
				return err
			}
			if !belong {
				problems["subcategories"] = "subcategories must exist and belong to the product category"
			}
		}
	}

	if brandID != nil {
		ok, err := s.brands.Exists(ctx, *brandID)
		if err != nil {
			return err
		}
		if !ok {
			problems["brand"] = fmt.Sprintf("No brand for this id: %s", *brandID)
		}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product references").WithDetails(problems)
	}
	return nil
}

func discountedPrice(raw *float64, price decimal.Decimal) (decimal.NullDecimal, error) {
	if raw == nil {
		return decimal.NullDecimal{}, nil
	}
	discounted := types.RoundMoney(decimal.NewFromFloat(*raw))
	if !discounted.LessThan(price) {
		return decimal.NullDecimal{}, discountError(discounted, price)
	}
	return decimal.NewNullDecimal(discounted), nil
}

func discountError(discounted, price decimal.Decimal) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid product price").WithDetails(map[string]string{
		"priceAfterDiscount": fmt.Sprintf("priceAfterDiscount %s must be lower than price %s", discounted, price),
	})
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
