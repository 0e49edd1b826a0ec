package wishlist

import (
	"context"

	"github.com/google/uuid"

	product "github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

var ErrProductNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")

// Service exposes the liked-products set of a user.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) ([]uuid.UUID, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context, userID uuid.UUID) ([]product.ProductDTO, error)
}

type wishlistRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Products(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

type productChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     wishlistRepository
	Products productChecker
	BaseURL  string
}

type service struct {
	repo     wishlistRepository
	products productChecker
	baseURL  string
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product checker is required")
	}
	return &service{repo: params.Repo, products: params.Products, baseURL: params.BaseURL}, nil
}

// Add has set semantics and returns the resulting product ids.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) ([]uuid.UUID, error) {
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return s.ids(ctx, userID)
}

// Remove is a no-op for products that are not wishlisted.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return s.ids(ctx, userID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]product.ProductDTO, error) {
	rows, err := s.repo.Products(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}
	out := make([]product.ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *product.FromModel(&rows[i], "", s.baseURL))
	}
	return out, nil
}

func (s *service) ids(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
