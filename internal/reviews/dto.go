package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
)

// ReviewDTO is the public shape of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Username  string    `json:"username"`
	Repuesto  uuid.UUID `json:"repuesto"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewInput is the create and update payload. repuesto is only read on create.
type ReviewInput struct {
	Repuesto uuid.UUID `json:"repuesto"`
	Rating   *int      `json:"rating"`
	Comment  *string   `json:"comment" validate:"omitempty,max=2000"`
}

// Summary aggregates the ratings of one part.
type Summary struct {
	Repuesto uuid.UUID `json:"repuesto"`
	Average  float64   `json:"average"`
	Count    int64     `json:"count"`
}

// Viewer identifies who is acting on a review.
type Viewer struct {
	UserID  uuid.UUID
	IsStaff bool
}

func FromModel(r models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		User:      r.UserID,
		Repuesto:  r.PartID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		dto.Username = r.User.Username
	}
	return dto
}
