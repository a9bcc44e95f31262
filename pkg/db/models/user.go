package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Username     string       `gorm:"column:username;size:30;not null;uniqueIndex"`
	Email        string       `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	FirstName    string       `gorm:"column:first_name;not null;default:''"`
	LastName     string       `gorm:"column:last_name;not null;default:''"`
	IsStaff      bool         `gorm:"column:is_staff;not null;default:false"`
	IsActive     bool         `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
	Profile      *UserProfile `gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserProfile holds the shipping address and identity fields of a customer.
type UserProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Phone        string    `gorm:"column:phone;size:15;not null;default:''"`
	DNI          string    `gorm:"column:dni;size:12;not null;default:''"`
	AddressLine1 string    `gorm:"column:address_line1;size:200;not null;default:''"`
	AddressLine2 string    `gorm:"column:address_line2;size:200;not null;default:''"`
	City         string    `gorm:"column:city;size:100;not null;default:''"`
	Province     string    `gorm:"column:province;size:100;not null;default:''"`
	PostalCode   string    `gorm:"column:postal_code;size:10;not null;default:''"`
	Country      string    `gorm:"column:country;size:100;not null;default:'Argentina'"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
