package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/parts"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

type partLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
}

type urlResolver interface {
	URL(relPath string) string
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo    *Repository
	Parts   partLookup
	Media   urlResolver
	Catalog config.CatalogConfig
}

// Service exposes favorite management for the signed-in user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[FavoriteDTO], error)
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*FavoriteDTO, bool, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
	RemovePart(ctx context.Context, userID, partID uuid.UUID) error
}

type service struct {
	repo    *Repository
	parts   partLookup
	media   urlResolver
	catalog config.CatalogConfig
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if params.Parts == nil {
		return nil, fmt.Errorf("part repository required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media store required")
	}
	return &service{
		repo:    params.Repo,
		parts:   params.Parts,
		media:   params.Media,
		catalog: params.Catalog,
	}, nil
}

// List returns the user's favorites with part detail.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[FavoriteDTO], error) {
	rows, window, total, err := s.repo.List(ctx, userID, params, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[FavoriteDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.toDTO(row))
	}
	return pagination.NewPage(window, total, out), nil
}

// Add ensures the part exists and links it to the user. Adding twice returns
// the existing favorite with created=false.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*FavoriteDTO, bool, error) {
	if req.Repuesto == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"repuesto": "Este campo es obligatorio."})
	}
	if _, err := s.parts.FindByID(ctx, req.Repuesto); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
				WithDetails(map[string]string{"repuesto": "El repuesto no existe."})
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}

	favorite, created, err := s.repo.Add(ctx, userID, req.Repuesto)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	dto := s.toDTO(*favorite)
	return &dto, created, nil
}

// Remove deletes one of the user's favorites. Other users' rows read as missing.
func (s *service) Remove(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorito no encontrado")
	}
	return nil
}

// RemovePart drops the favorite for a part regardless of prior state.
func (s *service) RemovePart(ctx context.Context, userID, partID uuid.UUID) error {
	if err := s.repo.DeleteByPart(ctx, userID, partID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	return nil
}

func (s *service) toDTO(f models.Favorite) FavoriteDTO {
	dto := FavoriteDTO{
		ID:        f.ID,
		Repuesto:  f.PartID,
		CreatedAt: f.CreatedAt,
	}
	if f.Part != nil {
		detail := parts.ToDTO(*f.Part, s.media.URL)
		dto.RepuestoDetail = &detail
	}
	return dto
}
