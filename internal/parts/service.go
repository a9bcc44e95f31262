package parts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
	"github.com/carshop-ar/carshop-backend/pkg/storage"
)

const (
	mainImageDir    = "repuestos"
	galleryImageDir = "repuestos/galeria"
	notFoundMessage = "repuesto no encontrado"
)

// Service exposes catalog part operations.
type Service interface {
	List(ctx context.Context, input ListInput) (pagination.Page[PartDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*PartDTO, error)
	Create(ctx context.Context, input PartInput) (*PartDTO, error)
	Update(ctx context.Context, id uuid.UUID, input PartInput, partial bool) (*PartDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, r io.Reader) (*PartDTO, error)
	ListImages(ctx context.Context, id uuid.UUID) ([]ImageDTO, error)
	AddImage(ctx context.Context, id uuid.UUID, position *int, r io.Reader) (*ImageDTO, error)
	DeleteImage(ctx context.Context, id, imageID uuid.UUID) error
}

// StockHook receives committed stock transitions.
type StockHook interface {
	StockChanged(ctx context.Context, part models.Part, previous, current int)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies of the part service.
type ServiceParams struct {
	Repo       *Repository
	Categories *categories.Repository
	DB         txRunner
	Outbox     outbox.Emitter
	Hook       StockHook
	Store      storage.Store
	Catalog    config.CatalogConfig
	Logger     *logger.Logger
}

type service struct {
	repo       *Repository
	categories *categories.Repository
	db         txRunner
	outbox     outbox.Emitter
	hook       StockHook
	store      storage.Store
	catalog    config.CatalogConfig
	logg       *logger.Logger
}

// NewService constructs a part service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("part repository required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("media store required")
	}
	return &service{
		repo:       params.Repo,
		categories: params.Categories,
		db:         params.DB,
		outbox:     params.Outbox,
		hook:       params.Hook,
		store:      params.Store,
		catalog:    params.Catalog,
		logg:       params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (pagination.Page[PartDTO], error) {
	var categoryID *uuid.UUID
	if ref := strings.TrimSpace(input.Filters.Category); ref != "" {
		category, err := s.categories.FindByRef(ctx, ref)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				window := pagination.Resolve(input.Pagination, 0, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
				return pagination.NewPage[PartDTO](window, 0, nil), nil
			}
			return pagination.Page[PartDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve category filter")
		}
		categoryID = &category.ID
	}

	rows, window, total, err := s.repo.List(ctx, input, categoryID, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[PartDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts")
	}
	out := make([]PartDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row, s.store.URL))
	}
	return pagination.NewPage(window, total, out), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PartDTO, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err, "load part")
	}
	dto := ToDTO(*part, s.store.URL)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input PartInput) (*PartDTO, error) {
	part := &models.Part{}
	if err := applyInput(part, input, false); err != nil {
		return nil, err
	}

	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureCategory(ctx, tx, part.CategoryID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, part); err != nil {
			return mapWriteError(err, "create part")
		}
		if part.Stock == 0 {
			return nil
		}
		return s.outbox.Emit(ctx, tx, StockChangedEvent(*part, 0, part.Stock, SourceCatalog))
	}); err != nil {
		return nil, asTyped(err, "create part")
	}

	s.fireStockHook(ctx, *part, 0, part.Stock)
	return s.Get(ctx, part.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input PartInput, partial bool) (*PartDTO, error) {
	var (
		updated  models.Part
		previous int
	)
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		part, err := txRepo.FindForUpdate(ctx, id)
		if err != nil {
			return mapLoadError(err, "load part")
		}
		previous = part.Stock
		if err := applyInput(part, input, partial); err != nil {
			return err
		}
		if err := s.ensureCategory(ctx, tx, part.CategoryID); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, part); err != nil {
			return mapWriteError(err, "update part")
		}
		updated = *part
		if previous == part.Stock {
			return nil
		}
		return s.outbox.Emit(ctx, tx, StockChangedEvent(*part, previous, part.Stock, SourceCatalog))
	}); err != nil {
		return nil, asTyped(err, "update part")
	}

	s.fireStockHook(ctx, updated, previous, updated.Stock)
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapLoadError(err, "load part")
	}
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteImages(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete part images")
		}
		deleted, err := txRepo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete part")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil
	}); err != nil {
		return asTyped(err, "delete part")
	}

	if part.Image != nil {
		s.removeFile(ctx, *part.Image)
	}
	for _, img := range part.Images {
		s.removeFile(ctx, img.Image)
	}
	return nil
}

func (s *service) SetImage(ctx context.Context, id uuid.UUID, r io.Reader) (*PartDTO, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err, "load part")
	}
	path, err := s.saveUpload(ctx, mainImageDir, r)
	if err != nil {
		return nil, err
	}

	previous := part.Image
	part.Image = &path
	if err := s.repo.Save(ctx, part); err != nil {
		s.removeFile(ctx, path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save part image")
	}
	if previous != nil && *previous != path {
		s.removeFile(ctx, *previous)
	}
	return s.Get(ctx, id)
}

func (s *service) ListImages(ctx context.Context, id uuid.UUID) ([]ImageDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLoadError(err, "load part")
	}
	rows, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list part images")
	}
	out := make([]ImageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, imageToDTO(row, s.store.URL))
	}
	return out, nil
}

func (s *service) AddImage(ctx context.Context, id uuid.UUID, position *int, r io.Reader) (*ImageDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLoadError(err, "load part")
	}
	if position != nil && *position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"orden": "Debe ser mayor o igual a 0."})
	}

	path, err := s.saveUpload(ctx, galleryImageDir, r)
	if err != nil {
		return nil, err
	}
	image := &models.PartImage{PartID: id, Image: path}
	if position != nil {
		image.Position = *position
	} else {
		next, err := s.repo.NextImagePosition(ctx, id)
		if err != nil {
			s.removeFile(ctx, path)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve image position")
		}
		image.Position = next
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		s.removeFile(ctx, path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add part image")
	}
	dto := imageToDTO(*image, s.store.URL)
	return &dto, nil
}

func (s *service) DeleteImage(ctx context.Context, id, imageID uuid.UUID) error {
	image, err := s.repo.FindImage(ctx, id, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "imagen no encontrada")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part image")
	}
	if err := s.repo.DeleteImage(ctx, image.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete part image")
	}
	s.removeFile(ctx, image.Image)
	return nil
}

func (s *service) ensureCategory(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, err := s.categories.WithTx(tx).FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
				WithDetails(map[string]string{"category_id": "La categoría no existe."})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func (s *service) saveUpload(ctx context.Context, dir string, r io.Reader) (string, error) {
	path, err := s.store.SaveImage(ctx, dir, r)
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmpty):
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "imagen inválida").
			WithDetails(map[string]string{"image": err.Error()})
	default:
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
	}
}

func (s *service) removeFile(ctx context.Context, path string) {
	if err := s.store.Delete(ctx, path); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "failed to remove media file")
	}
}

func (s *service) fireStockHook(ctx context.Context, part models.Part, previous, current int) {
	if s.hook == nil || previous == current {
		return
	}
	s.hook.StockChanged(ctx, part, previous, current)
}

// applyInput writes the input onto the row. A full write requires name,
// category, and price.
func applyInput(part *models.Part, input PartInput, partial bool) error {
	details := map[string]string{}

	if input.CategoryID != nil {
		part.CategoryID = *input.CategoryID
	}
	if (!partial && input.CategoryID == nil) || part.CategoryID == uuid.Nil {
		details["category_id"] = "Este campo es obligatorio."
	}

	if input.Name != nil {
		part.Name = strings.TrimSpace(*input.Name)
	}
	if (!partial && input.Name == nil) || part.Name == "" {
		details["name"] = "Este campo es obligatorio."
	}

	setString(&part.Brand, input.Brand, partial)
	setString(&part.Model, input.Model, partial)
	setString(&part.Description, input.Description, partial)

	if input.Year != nil || !partial {
		part.Year = input.Year
	}

	if input.SKU != nil || !partial {
		part.SKU = normalizeSKU(input.SKU)
	}

	if input.Price != nil {
		part.Price = input.Price.Round(2)
	}
	switch {
	case !partial && input.Price == nil:
		details["price"] = "Este campo es obligatorio."
	case part.Price.IsNegative():
		details["price"] = "Debe ser mayor o igual a 0."
	case part.Price.GreaterThanOrEqual(decimal.NewFromInt(100000000)):
		details["price"] = "Debe tener como máximo 10 dígitos."
	}

	if input.Stock != nil {
		part.Stock = *input.Stock
	} else if !partial {
		part.Stock = 0
	}
	if part.Stock < 0 {
		details["stock"] = "Debe ser mayor o igual a 0."
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").WithDetails(details)
	}
	return nil
}

func setString(dst *string, value *string, partial bool) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	} else if !partial {
		*dst = ""
	}
}

// normalizeSKU keeps the sku nullable so that several parts may omit it.
func normalizeSKU(value *string) *string {
	if value == nil {
		return nil
	}
	sku := strings.TrimSpace(*value)
	if sku == "" {
		return nil
	}
	return &sku
}

func mapLoadError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func mapWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ya existe un repuesto con ese SKU").
			WithDetails(map[string]string{"sku": "Ya existe un repuesto con ese SKU."})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func asTyped(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
