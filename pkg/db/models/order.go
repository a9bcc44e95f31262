package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/enums"
)

// Order is a completed checkout with a shipping snapshot.
type Order struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	User           *User             `gorm:"foreignKey:UserID"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Phone          string            `gorm:"column:phone;not null;default:''"`
	DNI            string            `gorm:"column:dni;not null;default:''"`
	AddressLine1   string            `gorm:"column:address_line1;not null;default:''"`
	AddressLine2   string            `gorm:"column:address_line2;not null;default:''"`
	City           string            `gorm:"column:city;not null;default:''"`
	Province       string            `gorm:"column:province;not null;default:''"`
	PostalCode     string            `gorm:"column:postal_code;not null;default:''"`
	Country        string            `gorm:"column:country;not null;default:'Argentina'"`
	CouponCode     *string           `gorm:"column:coupon_code"`
	DiscountAmount decimal.Decimal   `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem snapshots a part at the time of purchase.
type OrderItem struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PartID  *uuid.UUID      `gorm:"column:part_id;type:uuid;index"`
	Part    *Part           `gorm:"foreignKey:PartID;constraint:OnDelete:SET NULL"`
	Name    string          `gorm:"column:name;not null"`
	SKU     string          `gorm:"column:sku;not null;default:''"`
	Price   decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Qty     int             `gorm:"column:qty;not null"`
	Brand   string          `gorm:"column:brand;not null;default:''"`
	Model   string          `gorm:"column:model;not null;default:''"`
	Year    *int            `gorm:"column:year"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
