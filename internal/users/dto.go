package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	IsStaff     bool        `json:"is_staff"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	Profile     *ProfileDTO `json:"profile"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ProfileDTO is the public shape of a user profile.
type ProfileDTO struct {
	Phone        string `json:"phone"`
	DNI          string `json:"dni"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsStaff:     u.IsStaff,
		LastLoginAt: u.LastLoginAt,
		Profile:     ProfileFromModel(u.Profile),
		CreatedAt:   u.CreatedAt,
	}
}

func ProfileFromModel(p *models.UserProfile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		Phone:        p.Phone,
		DNI:          p.DNI,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		Country:      p.Country,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		IsStaff:      c.IsStaff,
		IsActive:     isActive,
	}
}

// ToProfileModel builds a profile row with the country fixed to Argentina.
func (p ProfileFields) ToProfileModel(userID uuid.UUID) *models.UserProfile {
	return &models.UserProfile{
		UserID:       userID,
		Phone:        p.Phone,
		DNI:          p.DNI,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		Country:      CountryArgentina,
	}
}

func fieldsFromModel(p *models.UserProfile) ProfileFields {
	if p == nil {
		return ProfileFields{}
	}
	return ProfileFields{
		Phone:        p.Phone,
		DNI:          p.DNI,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		Country:      p.Country,
	}
}
