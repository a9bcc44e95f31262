package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// Repository persists catalog categories.
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

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes the category; its parts cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByRef resolves a category from either its id or its slug.
func (r *Repository) FindByRef(ctx context.Context, ref string) (*models.Category, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return r.FindByID(ctx, id)
	}
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", ref).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns one page of categories ordered by name.
func (r *Repository) List(ctx context.Context, params pagination.Params, def, max int) ([]models.Category, pagination.Window, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	window := pagination.Resolve(params, total, def, max)

	var rows []models.Category
	if err := query.Order("name ASC").Offset(window.Offset).Limit(window.PageSize).Find(&rows).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	return rows, window, total, nil
}
