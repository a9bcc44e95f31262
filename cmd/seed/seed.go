package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/security"
)

const demoCouponCode = "SAVE10"

// Result counts the rows a run created.
type Result struct {
	Categories int
	Parts      int
	Users      int
	Coupons    int
}

type seeder struct {
	db        *gorm.DB
	passwords config.PasswordConfig
	now       func() time.Time
}

// Run seeds the demo catalog. Rows that already exist are left untouched; with
// force, parts and categories are wiped first.
func (s *seeder) Run(ctx context.Context, force bool) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if force {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Part{}).Error; err != nil {
				return fmt.Errorf("wipe parts: %w", err)
			}
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Category{}).Error; err != nil {
				return fmt.Errorf("wipe categories: %w", err)
			}
		}

		byName := make(map[string]uuid.UUID, len(demoCategories))
		for _, c := range demoCategories {
			id, created, err := s.category(tx, c)
			if err != nil {
				return err
			}
			byName[c.Name] = id
			if created {
				res.Categories++
			}
		}

		for _, p := range demoParts {
			created, err := s.part(tx, byName[p.Category], p)
			if err != nil {
				return err
			}
			if created {
				res.Parts++
			}
		}

		for _, u := range demoUsers {
			created, err := s.user(tx, u)
			if err != nil {
				return err
			}
			if created {
				res.Users++
			}
		}

		created, err := s.coupon(tx)
		if err != nil {
			return err
		}
		if created {
			res.Coupons++
		}
		return nil
	})
	return res, err
}

func (s *seeder) category(tx *gorm.DB, c seedCategory) (uuid.UUID, bool, error) {
	var existing models.Category
	err := tx.Where("name = ?", c.Name).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.UUID{}, false, fmt.Errorf("lookup category %s: %w", c.Name, err)
	}
	row := models.Category{Name: c.Name, Slug: categories.Slugify(c.Name), Description: c.Description}
	if err := tx.Create(&row).Error; err != nil {
		return uuid.UUID{}, false, fmt.Errorf("create category %s: %w", c.Name, err)
	}
	return row.ID, true, nil
}

func (s *seeder) part(tx *gorm.DB, categoryID uuid.UUID, p seedPart) (bool, error) {
	var count int64
	if err := tx.Model(&models.Part{}).Where("sku = ?", p.SKU).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup part %s: %w", p.SKU, err)
	}
	if count > 0 {
		return false, nil
	}
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return false, fmt.Errorf("price for %s: %w", p.SKU, err)
	}
	sku, image, year := p.SKU, p.Image, p.Year
	row := models.Part{
		CategoryID:  categoryID,
		Name:        p.Name,
		Brand:       p.Brand,
		Model:       p.Model,
		Year:        &year,
		SKU:         &sku,
		Description: p.Description,
		Price:       price,
		Stock:       p.Stock,
		Image:       &image,
	}
	if err := tx.Create(&row).Error; err != nil {
		return false, fmt.Errorf("create part %s: %w", p.SKU, err)
	}
	return true, nil
}

func (s *seeder) user(tx *gorm.DB, u seedUser) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup user %s: %w", u.Username, err)
	}
	if count > 0 {
		return false, nil
	}
	hash, err := security.HashPassword(u.Password, s.passwords)
	if err != nil {
		return false, fmt.Errorf("hash password for %s: %w", u.Username, err)
	}
	row := models.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		IsStaff:      u.Staff,
		IsActive:     true,
	}
	if err := tx.Create(&row).Error; err != nil {
		return false, fmt.Errorf("create user %s: %w", u.Username, err)
	}
	if err := tx.Create(&models.UserProfile{UserID: row.ID, Country: "Argentina"}).Error; err != nil {
		return false, fmt.Errorf("create profile for %s: %w", u.Username, err)
	}
	return true, nil
}

func (s *seeder) coupon(tx *gorm.DB) (bool, error) {
	var count int64
	if err := tx.Model(&models.Coupon{}).Where("code = ?", demoCouponCode).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup coupon: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	now := s.now().UTC()
	row := models.Coupon{
		Code:          demoCouponCode,
		DiscountType:  enums.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(10),
		Active:        true,
		ValidFrom:     now,
		ValidTo:       now.AddDate(1, 0, 0),
	}
	if err := tx.Create(&row).Error; err != nil {
		return false, fmt.Errorf("create coupon: %w", err)
	}
	return true, nil
}
