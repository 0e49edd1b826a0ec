package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// CategoryDTO is the public category shape with its image resolved to a URL.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromModel(c *models.Category, baseURL string) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Image:     types.OptionalImageURL(baseURL, types.ImageFolderCategories, c.Image),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required,min=3,max=32"`
	Image *string `json:"image"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=32"`
	Image *string `json:"image"`
}
