package categories

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
	ErrCategoryNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	ErrCategoryExists   = pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
	ErrCategoryInUse    = pkgerrors.New(pkgerrors.CodeConflict, "category is still referenced by products")
)

type Service interface {
	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	List(ctx context.Context, spec query.Spec) ([]CategoryDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Exists lets dependent resources check their parent category.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type categoryRepository interface {
	Insert(ctx context.Context, row *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, spec query.Spec, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Category, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ServiceParams struct {
	Repo    categoryRepository
	BaseURL string
}

type service struct {
	repo    categoryRepository
	baseURL string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category repository required")
	}
	return &service{repo: params.Repo, baseURL: params.BaseURL}, nil
}

func (s *service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	row := &models.Category{
		ID:    uuid.New(),
		Name:  name,
		Slug:  slug.Make(name),
		Image: req.Image,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, mapWriteError(err, "create category")
	}
	return FromModel(row, s.baseURL), nil
}

func (s *service) List(ctx context.Context, spec query.Spec) ([]CategoryDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.baseURL))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load category")
	}
	return FromModel(row, s.baseURL), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error) {
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
		return nil, mapWriteError(err, "update category")
	}
	return FromModel(row, s.baseURL), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete category")
	}
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	return ok, nil
}

func mapWriteError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrCategoryNotFound
	case db.IsUniqueViolation(err, ""):
		return ErrCategoryExists
	case db.IsForeignKeyViolation(err):
		return ErrCategoryInUse
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
}
