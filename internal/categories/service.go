package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// CategoryDTO is the public shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModel maps a category row to its DTO.
func FromModel(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryInput carries create/update values. Nil fields are left untouched on partial updates.
type CategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=120"`
	Description *string `json:"description"`
}

// Service manages catalog categories.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[CategoryDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput, partial bool) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    *Repository
	catalog config.CatalogConfig
}

// NewService constructs the category service.
func NewService(repo *Repository, catalog config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[CategoryDTO], error) {
	rows, window, total, err := s.repo.List(ctx, params, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[CategoryDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return pagination.NewPage(window, total, out), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*category)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	category := &models.Category{}
	if err := applyInput(category, input, false); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, mapWriteError(err, "create category")
	}
	dto := FromModel(*category)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CategoryInput, partial bool) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(category, input, partial); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, mapWriteError(err, "update category")
	}
	dto := FromModel(*category)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "categoría no encontrada")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "categoría no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

// applyInput writes the input onto the row. A full write requires a name and
// re-derives an empty slug from it.
func applyInput(category *models.Category, input CategoryInput, partial bool) error {
	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	} else if !partial {
		category.Name = ""
	}
	if category.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"name": "Este campo es obligatorio."})
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	} else if !partial {
		category.Description = ""
	}

	switch {
	case input.Slug != nil:
		category.Slug = Slugify(*input.Slug)
	case !partial:
		category.Slug = ""
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if category.Slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"slug": "No se pudo derivar un slug válido."})
	}
	return nil
}

func mapWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ya existe una categoría con ese nombre o slug")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
