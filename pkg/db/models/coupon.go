package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/enums"
)

// Coupon grants a percent or fixed discount within a validity window.
type Coupon struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Code          string             `gorm:"column:code;size:50;not null;uniqueIndex"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	Active        bool               `gorm:"column:active;not null"`
	ValidFrom     time.Time          `gorm:"column:valid_from;not null"`
	ValidTo       time.Time          `gorm:"column:valid_to;not null"`
	UsageLimit    *int               `gorm:"column:usage_limit"`
	TimesUsed     int                `gorm:"column:times_used;not null;default:0"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Exhausted reports whether the usage limit has been reached. A nil or zero limit is unlimited.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit != nil && *c.UsageLimit > 0 && c.TimesUsed >= *c.UsageLimit
}
