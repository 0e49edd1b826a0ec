package subcategories

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
	ErrSubCategoryNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
	ErrSubCategoryExists   = pkgerrors.New(pkgerrors.CodeConflict, "subcategory name already exists")
	ErrCategoryRequired    = pkgerrors.New(pkgerrors.CodeValidation, "subCategory must be belong to parent category")
	ErrCategoryNotFound    = pkgerrors.New(pkgerrors.CodeValidation, "no category for this id")
)

type Service interface {
	Create(ctx context.Context, req CreateSubCategoryRequest) (*SubCategoryDTO, error)
	List(ctx context.Context, categoryID *uuid.UUID, spec query.Spec) ([]SubCategoryDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*SubCategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSubCategoryRequest) (*SubCategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AllBelongTo reports whether every id is a subcategory of categoryID.
	AllBelongTo(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) (bool, error)
}

type subCategoryRepository interface {
	Insert(ctx context.Context, row *models.SubCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID *uuid.UUID, spec query.Spec) ([]models.SubCategory, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountInCategory(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type categoryChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ServiceParams struct {
	Repo       subCategoryRepository
	Categories categoryChecker
}

type service struct {
	repo       subCategoryRepository
	categories categoryChecker
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subcategory repository required")
	}
	if params.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category checker required")
	}
	return &service{repo: params.Repo, categories: params.Categories}, nil
}

func (s *service) Create(ctx context.Context, req CreateSubCategoryRequest) (*SubCategoryDTO, error) {
	if req.CategoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	row := &models.SubCategory{
		ID:         uuid.New(),
		Name:       name,
		Slug:       slug.Make(name),
		CategoryID: req.CategoryID,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, mapWriteError(err, "create subcategory")
	}
	return FromModel(row), nil
}

func (s *service) List(ctx context.Context, categoryID *uuid.UUID, spec query.Spec) ([]SubCategoryDTO, pagination.Meta, error) {
	rows, meta, err := s.repo.ListByCategory(ctx, categoryID, spec)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subcategories")
	}
	out := make([]SubCategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, meta, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SubCategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load subcategory")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateSubCategoryRequest) (*SubCategoryDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		updates["name"] = name
		updates["slug"] = slug.Make(name)
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	row, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, mapWriteError(err, "update subcategory")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete subcategory")
	}
	return nil
}

func (s *service) AllBelongTo(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) (bool, error) {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return true, nil
	}
	distinct := make([]uuid.UUID, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}
	count, err := s.repo.CountInCategory(ctx, categoryID, distinct)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subcategories")
	}
	return count == int64(len(distinct)), nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound.WithDetails(map[string]string{"category": "no category for this id: " + id.String()})
	}
	return nil
}

func mapWriteError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrSubCategoryNotFound
	case db.IsUniqueViolation(err, ""):
		return ErrSubCategoryExists
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
}
