package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/internal/parts"
)

// FavoriteDTO carries the liked part with its full detail.
type FavoriteDTO struct {
	ID             uuid.UUID      `json:"id"`
	Repuesto       uuid.UUID      `json:"repuesto"`
	RepuestoDetail *parts.PartDTO `json:"repuesto_detail"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AddRequest is the body of POST /api/favorites.
type AddRequest struct {
	Repuesto uuid.UUID `json:"repuesto" validate:"required"`
}
