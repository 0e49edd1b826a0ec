package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// UserRef is the reviewer joined onto review responses.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Rating    int       `json:"ratings"`
	User      UserRef   `json:"user"`
	ProductID uuid.UUID `json:"product"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromModel(r *models.Review, userName string) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        r.ID,
		Title:     r.Title,
		Rating:    r.Rating,
		User:      UserRef{ID: r.UserID, Name: userName},
		ProductID: r.ProductID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateReviewRequest is posted by a customer. On the nested route the
// product comes from the path.
type CreateReviewRequest struct {
	Title     *string   `json:"title" validate:"omitempty,min=3,max=35"`
	Rating    int       `json:"ratings" validate:"required,min=1,max=5"`
	ProductID uuid.UUID `json:"product"`
}

type UpdateReviewRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=3,max=35"`
	Rating *int    `json:"ratings" validate:"omitempty,min=1,max=5"`
}
