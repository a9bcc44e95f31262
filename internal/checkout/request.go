package checkout

import (
	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

// Request is the checkout payload. Extra item fields sent by the storefront
// (price, name, sku) are ignored; current catalog values are used.
type Request struct {
	Items      []LineInput `json:"items" validate:"required,min=1,max=100,dive"`
	CouponCode *string     `json:"coupon_code" validate:"omitempty,max=50"`
}

// LineInput is one requested part and quantity.
type LineInput struct {
	RepuestoID uuid.UUID `json:"repuesto_id" validate:"required"`
	Qty        int       `json:"qty" validate:"min=0,max=1000"`
}

// Line is a normalized request line.
type Line struct {
	PartID uuid.UUID
	Qty    int
}

func normalizeLines(items []LineInput) ([]Line, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El pedido debe contener al menos un ítem.")
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.RepuestoID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
				WithDetails(map[string]string{"repuesto_id": "Este campo es obligatorio."})
		}
		if item.Qty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
				WithDetails(map[string]string{"qty": "Debe ser mayor o igual a 1."})
		}
		qty := item.Qty
		if qty == 0 {
			qty = 1
		}
		lines = append(lines, Line{PartID: item.RepuestoID, Qty: qty})
	}
	return lines, nil
}

// aggregate sums quantities per part and returns the distinct ids in first-seen order.
func aggregate(lines []Line) (map[uuid.UUID]int, []uuid.UUID) {
	quantities := make(map[uuid.UUID]int, len(lines))
	order := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, seen := quantities[line.PartID]; !seen {
			order = append(order, line.PartID)
		}
		quantities[line.PartID] += line.Qty
	}
	return quantities, order
}

func insufficientStock(part models.Part) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "Stock insuficiente para %s. No hay suficiente stock disponible.", part.Name).
		WithDetails(map[string]string{"repuesto_id": part.ID.String()})
}

func unknownPart(id uuid.UUID) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "El repuesto %s no existe.", id).
		WithDetails(map[string]string{"repuesto_id": id.String()})
}
