package coupons

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

// Rejection reasons carried in error details.
const (
	ReasonInvalid   = "invalid"
	ReasonExpired   = "expired"
	ReasonExhausted = "exhausted"
)

const (
	messageInvalid   = "Cupón inválido o inactivo"
	messageExpired   = "Cupón expirado o no válido aún"
	messageExhausted = "Cupón agotado"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rejection builds the validation error for a reason.
func Rejection(reason string) error {
	message := messageInvalid
	switch reason {
	case ReasonExpired:
		message = messageExpired
	case ReasonExhausted:
		message = messageExhausted
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]string{"reason": reason})
}

// Check applies the usability rules to a loaded coupon. A nil coupon is
// invalid. expired reports whether the coupon is past valid_to and still
// active, which callers use to deactivate it.
func Check(c *models.Coupon, now time.Time) (expired bool, err error) {
	if c == nil || !c.Active {
		return false, Rejection(ReasonInvalid)
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return now.After(c.ValidTo), Rejection(ReasonExpired)
	}
	if c.Exhausted() {
		return false, Rejection(ReasonExhausted)
	}
	return false, nil
}

// Discount returns the amount taken off subtotal, capped at the subtotal and
// rounded to cents.
func Discount(c models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch c.DiscountType {
	case enums.DiscountTypePercent:
		amount = subtotal.Mul(c.DiscountValue).Div(hundred)
	default:
		amount = c.DiscountValue
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2)
}
