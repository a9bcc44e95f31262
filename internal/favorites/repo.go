package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the (user, part) pair and ignores duplicates. The stored row is
// returned either way; created reports whether this call inserted it.
func (r *Repository) Add(ctx context.Context, userID, partID uuid.UUID) (*models.Favorite, bool, error) {
	if userID == uuid.Nil || partID == uuid.Nil {
		return nil, false, gorm.ErrInvalidValue
	}

	row := models.Favorite{UserID: userID, PartID: partID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "part_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}

	favorite, err := r.FindByPart(ctx, userID, partID)
	if err != nil {
		return nil, false, err
	}
	return favorite, res.RowsAffected > 0, nil
}

// FindByPart loads a user's favorite for a part with the part detail.
func (r *Repository) FindByPart(ctx context.Context, userID, partID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := withPart(r.db.WithContext(ctx)).
		First(&favorite, "user_id = ? AND part_id = ?", userID, partID).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Delete removes the favorite when it belongs to userID.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

// DeleteByPart drops the (user, part) pair regardless of prior state.
func (r *Repository) DeleteByPart(ctx context.Context, userID, partID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND part_id = ?", userID, partID).
		Delete(&models.Favorite{}).
		Error
}

// List returns one page of a user's favorites, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params, def, max int) ([]models.Favorite, pagination.Window, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	window := pagination.Resolve(params, total, def, max)

	var rows []models.Favorite
	if err := withPart(query).
		Order("created_at DESC, id ASC").
		Offset(window.Offset).
		Limit(window.PageSize).
		Find(&rows).Error; err != nil {
		return nil, pagination.Window{}, 0, err
	}
	return rows, window, total, nil
}

func withPart(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Part.Category").
		Preload("Part.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		})
}
