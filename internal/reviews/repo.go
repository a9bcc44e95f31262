package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// Repository persists part reviews.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the user's review of a part. A second submission for the same
// pair overwrites rating and comment. created reports whether a row was inserted.
func (r *Repository) Upsert(ctx context.Context, review *models.Review) (bool, error) {
	var existing int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND part_id = ?", review.UserID, review.PartID).
		Count(&existing).Error; err != nil {
		return false, err
	}

	if err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "part_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(review).Error; err != nil {
		return false, err
	}
	return existing == 0, nil
}

func (r *Repository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User").Save(review).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) FindByPair(ctx context.Context, userID, partID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&review, "user_id = ? AND part_id = ?", userID, partID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns reviews newest first, optionally restricted to one part.
func (r *Repository) List(ctx context.Context, partID *uuid.UUID, params pagination.Params, def, max int) ([]models.Review, pagination.Window, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})
	if partID != nil {
		query = query.Where("part_id = ?", *partID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	window := pagination.Resolve(params, total, def, max)

	var rows []models.Review
	if err := query.
		Preload("User").
		Order("created_at DESC, id ASC").
		Offset(window.Offset).
		Limit(window.PageSize).
		Find(&rows).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	return rows, window, total, nil
}

// AverageRating returns the mean rating and review count for a part.
func (r *Repository) AverageRating(ctx context.Context, partID uuid.UUID) (float64, int64, error) {
	var row struct {
		Average float64
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("part_id = ?", partID).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Average, row.Total, nil
}
