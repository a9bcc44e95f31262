package parts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
)

// PartDTO is the public shape of a part (repuesto).
type PartDTO struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Brand       string                  `json:"brand"`
	Model       string                  `json:"model"`
	Year        *int                    `json:"year"`
	SKU         *string                 `json:"sku"`
	Description string                  `json:"description"`
	Price       decimal.Decimal         `json:"price"`
	Stock       int                     `json:"stock"`
	Image       *string                 `json:"image"`
	Images      []ImageDTO              `json:"imagenes"`
	CategoryID  uuid.UUID               `json:"category_id"`
	Category    *categories.CategoryDTO `json:"category,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ImageDTO is one gallery entry.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	Image     string    `json:"image"`
	Position  int       `json:"orden"`
	CreatedAt time.Time `json:"created_at"`
}

// PartInput carries create and update values. Nil fields are left untouched
// on partial updates.
type PartInput struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	Model       *string          `json:"model" validate:"omitempty,max=100"`
	Year        *int             `json:"year" validate:"omitempty,min=1900,max=2100"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
}

type urlFunc func(string) string

// ToDTO maps a part, with preloaded category and images, to its public shape.
func ToDTO(p models.Part, url urlFunc) PartDTO {
	dto := PartDTO{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Model:       p.Model,
		Year:        p.Year,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Images:      make([]ImageDTO, 0, len(p.Images)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Image != nil && *p.Image != "" {
		link := url(*p.Image)
		dto.Image = &link
	}
	if p.Category != nil {
		category := categories.FromModel(*p.Category)
		dto.Category = &category
	}
	for _, img := range p.Images {
		dto.Images = append(dto.Images, imageToDTO(img, url))
	}
	return dto
}

func imageToDTO(img models.PartImage, url urlFunc) ImageDTO {
	return ImageDTO{
		ID:        img.ID,
		Image:     url(img.Image),
		Position:  img.Position,
		CreatedAt: img.CreatedAt,
	}
}
