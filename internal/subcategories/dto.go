package subcategories

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

type SubCategoryDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func FromModel(s *models.SubCategory) *SubCategoryDTO {
	if s == nil {
		return nil
	}
	return &SubCategoryDTO{
		ID:         s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		CategoryID: s.CategoryID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// CreateSubCategoryRequest may omit category when it comes from the nested route.
type CreateSubCategoryRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=32"`
	CategoryID uuid.UUID `json:"category"`
}

type UpdateSubCategoryRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=2,max=32"`
	CategoryID *uuid.UUID `json:"category"`
}
