package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

const messageRating = "El rating debe estar entre 1 y 5."

type partLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
}

// Service manages part reviews. Anyone may read; mutations are owner or staff.
type Service interface {
	List(ctx context.Context, partID *uuid.UUID, params pagination.Params) (pagination.Page[ReviewDTO], error)
	Summary(ctx context.Context, partID uuid.UUID) (*Summary, error)
	Submit(ctx context.Context, userID uuid.UUID, input ReviewInput) (*ReviewDTO, bool, error)
	Update(ctx context.Context, viewer Viewer, id uuid.UUID, input ReviewInput, partial bool) (*ReviewDTO, error)
	Delete(ctx context.Context, viewer Viewer, id uuid.UUID) error
}

type service struct {
	repo    *Repository
	parts   partLookup
	catalog config.CatalogConfig
}

func NewService(repo *Repository, parts partLookup, catalog config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if parts == nil {
		return nil, fmt.Errorf("part repository required")
	}
	return &service{repo: repo, parts: parts, catalog: catalog}, nil
}

func (s *service) List(ctx context.Context, partID *uuid.UUID, params pagination.Params) (pagination.Page[ReviewDTO], error) {
	rows, window, total, err := s.repo.List(ctx, partID, params, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[ReviewDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return pagination.NewPage(window, total, out), nil
}

func (s *service) Summary(ctx context.Context, partID uuid.UUID) (*Summary, error) {
	if err := s.ensurePart(ctx, partID, pkgerrors.CodeNotFound); err != nil {
		return nil, err
	}
	avg, count, err := s.repo.AverageRating(ctx, partID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rating summary")
	}
	return &Summary{Repuesto: partID, Average: math.Round(avg*100) / 100, Count: count}, nil
}

// Submit creates the user's review of a part, or overwrites it when one exists.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input ReviewInput) (*ReviewDTO, bool, error) {
	details := map[string]string{}
	if input.Repuesto == uuid.Nil {
		details["repuesto"] = "Este campo es obligatorio."
	}
	if input.Rating == nil {
		details["rating"] = "Este campo es obligatorio."
	} else if !validRating(*input.Rating) {
		details["rating"] = messageRating
	}
	if len(details) > 0 {
		return nil, false, validation(details)
	}
	if err := s.ensurePart(ctx, input.Repuesto, pkgerrors.CodeValidation); err != nil {
		return nil, false, err
	}

	review := &models.Review{UserID: userID, PartID: input.Repuesto, Rating: *input.Rating}
	if input.Comment != nil {
		review.Comment = strings.TrimSpace(*input.Comment)
	}
	created, err := s.repo.Upsert(ctx, review)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
	}

	stored, err := s.repo.FindByPair(ctx, userID, input.Repuesto)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	dto := FromModel(*stored)
	return &dto, created, nil
}

func (s *service) Update(ctx context.Context, viewer Viewer, id uuid.UUID, input ReviewInput, partial bool) (*ReviewDTO, error) {
	review, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	if input.Rating == nil && !partial {
		return nil, validation(map[string]string{"rating": "Este campo es obligatorio."})
	}
	if input.Rating != nil {
		if !validRating(*input.Rating) {
			return nil, validation(map[string]string{"rating": messageRating})
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = strings.TrimSpace(*input.Comment)
	} else if !partial {
		review.Comment = ""
	}

	if err := s.repo.Save(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	dto := FromModel(*review)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, viewer Viewer, id uuid.UUID) error {
	if _, err := s.authorize(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) authorize(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reseña no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if !viewer.IsStaff && review.UserID != viewer.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "solo el autor o el staff pueden modificar una reseña")
	}
	return review, nil
}

func (s *service) ensurePart(ctx context.Context, partID uuid.UUID, missing pkgerrors.Code) error {
	if _, err := s.parts.FindByID(ctx, partID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if missing == pkgerrors.CodeValidation {
				return validation(map[string]string{"repuesto": "El repuesto no existe."})
			}
			return pkgerrors.New(missing, "repuesto no encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}
	return nil
}

func validRating(v int) bool {
	return v >= 1 && v <= 5
}

func validation(details map[string]string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").WithDetails(details)
}
