package outbox

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/pkg/enums"
)

// OrderCreatedEvent is emitted once a checkout commits.
type OrderCreatedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	UserID         uuid.UUID         `json:"user_id"`
	Status         enums.OrderStatus `json:"status"`
	Total          decimal.Decimal   `json:"total"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	CouponCode     *string           `json:"coupon_code,omitempty"`
	ItemCount      int               `json:"item_count"`
}

// OrderStatusChangedEvent is emitted when staff moves an order to a new status.
type OrderStatusChangedEvent struct {
	OrderID  uuid.UUID         `json:"order_id"`
	UserID   uuid.UUID         `json:"user_id"`
	Previous enums.OrderStatus `json:"previous"`
	Current  enums.OrderStatus `json:"current"`
}

// PartStockChangedEvent is emitted whenever a part's stock moves.
type PartStockChangedEvent struct {
	PartID   uuid.UUID `json:"part_id"`
	SKU      string    `json:"sku,omitempty"`
	Previous int       `json:"previous"`
	Current  int       `json:"current"`
	Source   string    `json:"source"`
}
