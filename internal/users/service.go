package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

// ProfileUpdateRequest carries profile edits. Nil fields are left unchanged on PATCH.
type ProfileUpdateRequest struct {
	Phone        *string `json:"phone"`
	DNI          *string `json:"dni"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
}

// Service serves the current user and profile endpoints.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileUpdateRequest, partial bool) (*ProfileDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

type service struct {
	repo profileRepository
}

// NewService wires the profile service.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &ProfileDTO{Country: CountryArgentina}, nil
	}
	return ProfileFromModel(profile), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileUpdateRequest, partial bool) (*ProfileDTO, error) {
	if !partial {
		if missing := missingRequired(req); len(missing) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "faltan campos obligatorios").WithDetails(missing)
		}
	}

	existing, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := applyUpdate(fieldsFromModel(existing), req).Normalize()
	if err := ValidateProfile(merged); err != nil {
		return nil, err
	}

	profile := merged.ToProfileModel(userID)
	if existing != nil {
		profile.ID = existing.ID
	}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return ProfileFromModel(profile), nil
}

func (s *service) loadProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario requerido")
	}
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func applyUpdate(base ProfileFields, req ProfileUpdateRequest) ProfileFields {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.Phone, req.Phone)
	set(&base.DNI, req.DNI)
	set(&base.AddressLine1, req.AddressLine1)
	set(&base.AddressLine2, req.AddressLine2)
	set(&base.City, req.City)
	set(&base.Province, req.Province)
	set(&base.PostalCode, req.PostalCode)
	set(&base.Country, req.Country)
	return base
}

func missingRequired(req ProfileUpdateRequest) map[string]string {
	missing := map[string]string{}
	required := map[string]*string{
		"phone":         req.Phone,
		"dni":           req.DNI,
		"address_line1": req.AddressLine1,
		"city":          req.City,
		"province":      req.Province,
		"postal_code":   req.PostalCode,
	}
	for field, value := range required {
		if value == nil {
			missing[field] = "Este campo es obligatorio."
		}
	}
	return missing
}
