package brands

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

var (
	ErrBrandNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	ErrBrandExists   = pkgerrors.New(pkgerrors.CodeConflict, "brand name already exists")
)

type Service interface {
	Create(ctx context.Context, req CreateBrandRequest) (*BrandDTO, error)
	List(ctx context.Context, spec query.Spec) ([]BrandDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type brandRepository interface {
	Insert(ctx context.Context, row *models.Brand) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	List(ctx context.Context, spec query.Spec, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Brand, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ServiceParams struct {
	Repo    brandRepository
	BaseURL string
}

type service struct {
	repo    brandRepository
	baseURL string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "brand repository required")
	}
	return &service{repo: params.Repo, baseURL: params.BaseURL}, nil
}

func (s *service) Create(ctx context.Context, req CreateBrandRequest) (*BrandDTO, error) {
	name := strings.TrimSpace(req.Name)
	row := &models.Brand{
		ID:    uuid.New(),
		Name:  name,
		Slug:  slug.Make(name),
		Image: req.Image,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, mapWriteError(err, "create brand")
	}
	return FromModel(row, s.baseURL), nil
}

func (s *service) List(ctx context.Context, spec query.Spec) ([]BrandDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.baseURL))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load brand")
	}
	return FromModel(row, s.baseURL), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		updates["name"] = name
		updates["slug"] = slug.Make(name)
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, mapWriteError(err, "update brand")
	}
	return FromModel(row, s.baseURL), nil
}

// Delete removes the brand; products referencing it keep no brand.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete brand")
	}
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check brand")
	}
	return ok, nil
}

func mapWriteError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrBrandNotFound
	case db.IsUniqueViolation(err, ""):
		return ErrBrandExists
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
}
