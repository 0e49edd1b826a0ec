package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// CategoryRef is the category joined onto product responses.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// ReviewSummary is a review embedded in the product detail response.
type ReviewSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Rating    int       `json:"rating"`
	UserID    uuid.UUID `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductDTO is the public product shape with image names resolved to URLs.
type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Title              string          `json:"title"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	Quantity           int             `json:"quantity"`
	Sold               int             `json:"sold"`
	Price              float64         `json:"price"`
	PriceAfterDiscount *float64        `json:"priceAfterDiscount,omitempty"`
	Colors             []string        `json:"colors"`
	ImageCover         string          `json:"imageCover"`
	Images             []string        `json:"images"`
	Category           CategoryRef     `json:"category"`
	Subcategories      []uuid.UUID     `json:"subcategories"`
	Brand              *uuid.UUID      `json:"brand,omitempty"`
	RatingAverage      float64         `json:"ratingAverage"`
	RatingQuantity     int             `json:"ratingQuantity"`
	Reviews            []ReviewSummary `json:"reviews,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// FromModel maps a product row. categoryName may be empty when the join was skipped.
func FromModel(p *models.Product, categoryName, baseURL string) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Quantity:       p.Quantity,
		Sold:           p.Sold,
		Price:          p.Price.InexactFloat64(),
		Colors:         append([]string{}, p.Colors...),
		ImageCover:     types.ImageURL(baseURL, types.ImageFolderProducts, p.ImageCover),
		Images:         types.ImageURLs(baseURL, types.ImageFolderProducts, p.Images),
		Category:       CategoryRef{ID: p.CategoryID, Name: categoryName},
		Subcategories:  append([]uuid.UUID{}, p.SubcategoryIDs...),
		Brand:          p.BrandID,
		RatingAverage:  p.RatingsAverage.InexactFloat64(),
		RatingQuantity: p.RatingsQuantity,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.PriceAfterDiscount.Valid {
		discounted := p.PriceAfterDiscount.Decimal.InexactFloat64()
		dto.PriceAfterDiscount = &discounted
	}
	return dto
}

// CreateProductRequest is the admin payload for a new catalog entry.
// Rating fields are not part of it: they are derived from reviews.
type CreateProductRequest struct {
	Title              string      `json:"title" validate:"required,min=3,max=100"`
	Description        string      `json:"description" validate:"required,min=3,max=2000"`
	Quantity           *int        `json:"quantity" validate:"required,gte=0"`
	Sold               *int        `json:"sold" validate:"omitempty,gte=0"`
	Price              *float64    `json:"price" validate:"required,gte=0,lte=2000000"`
	PriceAfterDiscount *float64    `json:"priceAfterDiscount" validate:"omitempty,gte=0"`
	Colors             []string    `json:"colors"`
	ImageCover         string      `json:"imageCover" validate:"required"`
	Images             []string    `json:"images"`
	Category           uuid.UUID   `json:"category" validate:"required"`
	Subcategories      []uuid.UUID `json:"subcategories"`
	Brand              *uuid.UUID  `json:"brand"`
}

// UpdateProductRequest changes any subset of the writable product fields.
type UpdateProductRequest struct {
	Title              *string      `json:"title" validate:"omitempty,min=3,max=100"`
	Description        *string      `json:"description" validate:"omitempty,min=3,max=2000"`
	Quantity           *int         `json:"quantity" validate:"omitempty,gte=0"`
	Sold               *int         `json:"sold" validate:"omitempty,gte=0"`
	Price              *float64     `json:"price" validate:"omitempty,gte=0,lte=2000000"`
	PriceAfterDiscount *float64     `json:"priceAfterDiscount" validate:"omitempty,gte=0"`
	Colors             *[]string    `json:"colors"`
	ImageCover         *string      `json:"imageCover" validate:"omitempty,min=1"`
	Images             *[]string    `json:"images"`
	Category           *uuid.UUID   `json:"category"`
	Subcategories      *[]uuid.UUID `json:"subcategories"`
	Brand              *uuid.UUID   `json:"brand"`
}
