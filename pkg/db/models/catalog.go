package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups parts in the catalog.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex"`
	Slug        string    `gorm:"column:slug;size:120;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Part (repuesto) is a sellable catalog item.
type Part struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Name        string          `gorm:"column:name;size:200;not null"`
	Brand       string          `gorm:"column:brand;size:100;not null;default:''"`
	Model       string          `gorm:"column:model;size:100;not null;default:''"`
	Year        *int            `gorm:"column:year"`
	SKU         *string         `gorm:"column:sku;size:50;uniqueIndex"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0;check:stock >= 0"`
	Image       *string         `gorm:"column:image"`
	Images      []PartImage     `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Part) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PartImage is one entry of a part's ordered gallery.
type PartImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID    uuid.UUID `gorm:"column:part_id;type:uuid;not null;index"`
	Image     string    `gorm:"column:image;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *PartImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
