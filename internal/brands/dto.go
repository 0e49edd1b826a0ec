package brands

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// BrandDTO is the public brand shape with its image resolved to a URL.
type BrandDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromModel(c *models.Brand, baseURL string) *BrandDTO {
	if c == nil {
		return nil
	}
	return &BrandDTO{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Image:     types.OptionalImageURL(baseURL, types.ImageFolderBrands, c.Image),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateBrandRequest struct {
	Name  string  `json:"name" validate:"required,min=3,max=32"`
	Image *string `json:"image"`
}

type UpdateBrandRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=32"`
	Image *string `json:"image"`
}
