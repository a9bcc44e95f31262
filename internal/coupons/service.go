package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// CouponDTO is the public shape of a coupon.
type CouponDTO struct {
	ID            uuid.UUID          `json:"id"`
	Code          string             `json:"code"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	Active        bool               `json:"active"`
	ValidFrom     time.Time          `json:"valid_from"`
	ValidTo       time.Time          `json:"valid_to"`
	UsageLimit    *int               `json:"usage_limit"`
	TimesUsed     int                `json:"times_used"`
}

func toDTO(c models.Coupon) CouponDTO {
	return CouponDTO{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		Active:        c.Active,
		ValidFrom:     c.ValidFrom,
		ValidTo:       c.ValidTo,
		UsageLimit:    c.UsageLimit,
		TimesUsed:     c.TimesUsed,
	}
}

// CouponInput carries staff create and update values.
type CouponInput struct {
	Code          *string          `json:"code" validate:"omitempty,max=50"`
	DiscountType  *string          `json:"discount_type" validate:"omitempty,oneof=percent fixed"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	Active        *bool            `json:"active"`
	ValidFrom     *time.Time       `json:"valid_from"`
	ValidTo       *time.Time       `json:"valid_to"`
	UsageLimit    *int             `json:"usage_limit" validate:"omitempty,min=0"`
}

// ValidateRequest is the body of the coupon validation endpoint.
type ValidateRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

// Service validates coupons for customers and manages them for staff.
type Service interface {
	Validate(ctx context.Context, code string) (*CouponDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[CouponDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	Create(ctx context.Context, input CouponInput) (*CouponDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CouponInput, partial bool) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    *Repository
	catalog config.CatalogConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the coupon service.
func NewService(repo *Repository, catalog config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, catalog: catalog, logg: logg, now: time.Now}, nil
}

func (s *service) Validate(ctx context.Context, code string) (*CouponDTO, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, Rejection(ReasonInvalid)
	}
	coupon, err := s.repo.FindByCodeForUpdate(ctx, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	expired, err := Check(coupon, s.now())
	if expired {
		if derr := s.repo.Deactivate(ctx, coupon.ID); derr != nil && s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "coupon_id", coupon.ID.String()), "failed to deactivate expired coupon", derr)
		}
	}
	if err != nil {
		return nil, err
	}
	dto := toDTO(*coupon)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[CouponDTO], error) {
	rows, window, total, err := s.repo.List(ctx, params, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[CouponDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	out := make([]CouponDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return pagination.NewPage(window, total, out), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*coupon)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CouponInput) (*CouponDTO, error) {
	coupon := &models.Coupon{Active: true}
	if err := applyInput(coupon, input, false); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, mapWriteError(err, "create coupon")
	}
	dto := toDTO(*coupon)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CouponInput, partial bool) (*CouponDTO, error) {
	coupon, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(coupon, input, partial); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, coupon); err != nil {
		return nil, mapWriteError(err, "update coupon")
	}
	dto := toDTO(*coupon)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cupón no encontrado")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cupón no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

// applyInput writes the input onto the row. A full write requires code, type,
// value, and both window bounds; active defaults to true.
func applyInput(c *models.Coupon, input CouponInput, partial bool) error {
	details := map[string]string{}
	required := func(field string, present bool) {
		if !partial && !present {
			details[field] = "Este campo es obligatorio."
		}
	}

	required("code", input.Code != nil)
	if input.Code != nil {
		c.Code = NormalizeCode(*input.Code)
		if c.Code == "" {
			details["code"] = "Este campo es obligatorio."
		}
	}

	required("discount_type", input.DiscountType != nil)
	if input.DiscountType != nil {
		kind, err := enums.ParseDiscountType(*input.DiscountType)
		if err != nil {
			details["discount_type"] = "Debe ser percent o fixed."
		} else {
			c.DiscountType = kind
		}
	}

	required("discount_value", input.DiscountValue != nil)
	if input.DiscountValue != nil {
		c.DiscountValue = input.DiscountValue.Round(2)
	}
	if c.DiscountValue.IsNegative() {
		details["discount_value"] = "Debe ser mayor o igual a 0."
	} else if c.DiscountType == enums.DiscountTypePercent && c.DiscountValue.GreaterThan(hundred) {
		details["discount_value"] = "Un porcentaje no puede superar 100."
	}

	if input.Active != nil {
		c.Active = *input.Active
	} else if !partial {
		c.Active = true
	}

	required("valid_from", input.ValidFrom != nil)
	if input.ValidFrom != nil {
		c.ValidFrom = input.ValidFrom.UTC()
	}
	required("valid_to", input.ValidTo != nil)
	if input.ValidTo != nil {
		c.ValidTo = input.ValidTo.UTC()
	}
	if !c.ValidFrom.IsZero() && !c.ValidTo.IsZero() && c.ValidTo.Before(c.ValidFrom) {
		details["valid_to"] = "La fecha fin debe ser posterior a la de inicio."
	}

	if input.UsageLimit != nil || !partial {
		c.UsageLimit = input.UsageLimit
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").WithDetails(details)
	}
	return nil
}

func mapWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ya existe un cupón con ese código").
			WithDetails(map[string]string{"code": "Ya existe un cupón con ese código."})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
