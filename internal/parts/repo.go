package parts

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

const likeEscape = ` ESCAPE '\'`

// Repository wires together all part-related persistence helpers.
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

func (r *Repository) Create(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(part).Error
}

func (r *Repository) Save(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(part).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Part{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// FindByID loads the part with its category and ordered gallery.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.withDetail(r.db.WithContext(ctx)).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindForUpdate loads the bare part row under a row lock.
func (r *Repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindManyForUpdate locks every requested part in id order.
func (r *Repository) FindManyForUpdate(ctx context.Context, ids []uuid.UUID) ([]models.Part, error) {
	var rows []models.Part
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// FindBySKUForUpdate matches the sku case-insensitively and locks the row.
func (r *Repository) FindBySKUForUpdate(ctx context.Context, sku string) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("LOWER(sku) = ?", strings.ToLower(strings.TrimSpace(sku))).
		First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// LockAll locks and returns every part, used by bulk stock commands.
func (r *Repository) LockAll(ctx context.Context) ([]models.Part, error) {
	var rows []models.Part
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// SetStock writes an absolute stock value.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

// DecrementStock subtracts qty only when enough stock remains.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return result.RowsAffected > 0, result.Error
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Part{}).Count(&total).Error
	return total, err
}

func (r *Repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Part{}).Where("stock <= ?", threshold).Count(&total).Error
	return total, err
}

// List returns one page of parts matching the filters.
func (r *Repository) List(ctx context.Context, input ListInput, categoryID *uuid.UUID, def, max int) ([]models.Part, pagination.Window, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Part{})
	query = applyFilters(query, input.Filters, categoryID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	window := pagination.Resolve(input.Pagination, total, def, max)

	var rows []models.Part
	if err := r.withDetail(query).
		Order(orderClause(input.Filters.Ordering)).
		Offset(window.Offset).
		Limit(window.PageSize).
		Find(&rows).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	return rows, window, total, nil
}

func applyFilters(query *gorm.DB, f ListFilters, categoryID *uuid.UUID) *gorm.DB {
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if sku := strings.TrimSpace(f.SKU); sku != "" {
		query = query.Where("LOWER(sku) = ?", strings.ToLower(sku))
	}
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		query = query.Where("LOWER(brand) LIKE ?"+likeEscape, likePattern(brand))
	}
	if model := strings.TrimSpace(f.Model); model != "" {
		query = query.Where("LOWER(model) LIKE ?"+likeEscape, likePattern(model))
	}
	if f.Year != nil {
		query = query.Where("year = ?", *f.Year)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinStock != nil {
		query = query.Where("stock >= ?", *f.MinStock)
	}
	if f.MaxStock != nil {
		query = query.Where("stock <= ?", *f.MaxStock)
	}
	if f.InStock != nil {
		if *f.InStock {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"LOWER(name) LIKE ?"+likeEscape+
				" OR LOWER(brand) LIKE ?"+likeEscape+
				" OR LOWER(model) LIKE ?"+likeEscape+
				" OR LOWER(COALESCE(sku, '')) LIKE ?"+likeEscape+
				" OR LOWER(description) LIKE ?"+likeEscape,
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	return query
}

func (r *Repository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		})
}

func (r *Repository) AddImage(ctx context.Context, image *models.PartImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// NextImagePosition returns one past the highest gallery position.
func (r *Repository) NextImagePosition(ctx context.Context, partID uuid.UUID) (int, error) {
	var max sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&models.PartImage{}).
		Where("part_id = ?", partID).
		Select("MAX(position)").
		Row().
		Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *Repository) ListImages(ctx context.Context, partID uuid.UUID) ([]models.PartImage, error) {
	var rows []models.PartImage
	err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("position ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindImage(ctx context.Context, partID, imageID uuid.UUID) (*models.PartImage, error) {
	var image models.PartImage
	if err := r.db.WithContext(ctx).First(&image, "id = ? AND part_id = ?", imageID, partID).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImages removes the whole gallery of a part.
func (r *Repository) DeleteImages(ctx context.Context, partID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PartImage{}, "part_id = ?", partID).Error
}

func (r *Repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PartImage{}, "id = ?", imageID).Error
}
