package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
)

// OrderDTO is the public shape of an order with its item snapshots.
type OrderDTO struct {
	ID             uuid.UUID         `json:"id"`
	User           *OrderUserDTO     `json:"user"`
	Status         enums.OrderStatus `json:"status"`
	StatusLabel    string            `json:"status_label"`
	Total          decimal.Decimal   `json:"total"`
	Phone          string            `json:"phone"`
	DNI            string            `json:"dni"`
	AddressLine1   string            `json:"address_line1"`
	AddressLine2   string            `json:"address_line2"`
	City           string            `json:"city"`
	Province       string            `json:"province"`
	PostalCode     string            `json:"postal_code"`
	Country        string            `json:"country"`
	CouponCode     *string           `json:"coupon_code"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Items          []ItemDTO         `json:"items"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OrderUserDTO identifies the buyer.
type OrderUserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ItemDTO is one immutable order line.
type ItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	RepuestoID *uuid.UUID      `json:"repuesto_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Qty        int             `json:"qty"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Year       *int            `json:"year"`
}

// StatusUpdateRequest is the staff payload to move an order.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered"`
}

// FromModel maps an order row, with preloaded user and items, to its DTO.
func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:             o.ID,
		Status:         o.Status,
		StatusLabel:    o.Status.Label(),
		Total:          o.Total,
		Phone:          o.Phone,
		DNI:            o.DNI,
		AddressLine1:   o.AddressLine1,
		AddressLine2:   o.AddressLine2,
		City:           o.City,
		Province:       o.Province,
		PostalCode:     o.PostalCode,
		Country:        o.Country,
		CouponCode:     o.CouponCode,
		DiscountAmount: o.DiscountAmount,
		Items:          make([]ItemDTO, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.User != nil {
		dto.User = &OrderUserDTO{ID: o.User.ID, Username: o.User.Username}
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:         item.ID,
			RepuestoID: item.PartID,
			Name:       item.Name,
			SKU:        item.SKU,
			Price:      item.Price,
			Qty:        item.Qty,
			Brand:      item.Brand,
			Model:      item.Model,
			Year:       item.Year,
		})
	}
	return dto
}
