package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// Repository persists discount coupons.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *Repository) Save(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCodeForUpdate loads the coupon by its normalized code under a row lock.
func (r *Repository) FindByCodeForUpdate(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&coupon, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		Update("active", false).Error
}

// IncrementUsage bumps times_used unless the usage limit has been reached.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit = 0 OR times_used < usage_limit)", id).
		Update("times_used", gorm.Expr("times_used + 1"))
	return result.RowsAffected > 0, result.Error
}

// DeactivateExpired switches off every active coupon whose window closed before now.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("active = ? AND valid_to < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// List returns one page of coupons, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, def, max int) ([]models.Coupon, pagination.Window, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Coupon{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	window := pagination.Resolve(params, total, def, max)

	var rows []models.Coupon
	if err := query.Order("created_at DESC, id ASC").Offset(window.Offset).Limit(window.PageSize).Find(&rows).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	return rows, window, total, nil
}
