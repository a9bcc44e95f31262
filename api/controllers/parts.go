package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/api/responses"
	"github.com/carshop-ar/carshop-backend/api/validators"
	"github.com/carshop-ar/carshop-backend/internal/parts"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

const maxSearchLen = 100

// PartList serves the filtered, searchable catalog.
func PartList(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		input, err := partListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func partListInput(r *http.Request) (parts.ListInput, error) {
	q := r.URL.Query()
	filters := parts.ListFilters{
		Category: strings.TrimSpace(q.Get("category")),
		SKU:      strings.TrimSpace(q.Get("sku")),
		Brand:    strings.TrimSpace(q.Get("brand")),
		Model:    strings.TrimSpace(q.Get("model")),
		Search:   validators.SanitizeString(q.Get("search"), maxSearchLen),
		Ordering: strings.TrimSpace(q.Get("ordering")),
	}

	var err error
	if filters.Year, err = validators.OptionalQueryInt(r, "year"); err != nil {
		return parts.ListInput{}, err
	}
	if filters.MinPrice, err = validators.OptionalQueryDecimal(r, "min_price"); err != nil {
		return parts.ListInput{}, err
	}
	if filters.MaxPrice, err = validators.OptionalQueryDecimal(r, "max_price"); err != nil {
		return parts.ListInput{}, err
	}
	if filters.MinStock, err = validators.OptionalQueryInt(r, "min_stock"); err != nil {
		return parts.ListInput{}, err
	}
	if filters.MaxStock, err = validators.OptionalQueryInt(r, "max_stock"); err != nil {
		return parts.ListInput{}, err
	}
	if filters.InStock, err = validators.OptionalQueryBool(r, "in_stock"); err != nil {
		return parts.ListInput{}, err
	}

	return parts.ListInput{Filters: filters, Pagination: pagination.ParamsFromQuery(q)}, nil
}

func PartDetail(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		part, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}

// PartCreate accepts JSON, or multipart form fields plus an optional `image` file.
func PartCreate(svc parts.Service, maxUpload int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}

		var (
			body  parts.PartInput
			image multipart.File
		)
		if isMultipart(r) {
			r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
			if err := r.ParseMultipartForm(maxUpload); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Formulario inválido."))
				return
			}
			input, err := partInputFromForm(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			body = input
			if file, _, err := r.FormFile("image"); err == nil {
				defer file.Close()
				image = file
			}
		} else if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if image != nil {
			if part, err = svc.SetImage(r.Context(), part.ID, image); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, part)
	}
}

// PartUpdate serves PUT and PATCH.
func PartUpdate(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body parts.PartInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		part, err := svc.Update(r.Context(), id, body, isPartial(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}

func PartDelete(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// PartSetImage replaces the main image from the multipart `image` field.
func PartSetImage(svc parts.Service, maxUpload int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, err := uploadedImage(w, r, maxUpload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		part, err := svc.SetImage(r.Context(), id, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}

func PartImageList(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		images, err := svc.ListImages(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}

// PartImageAdd stores a gallery image. The optional `orden` field sets its position.
func PartImageAdd(svc parts.Service, maxUpload int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, err := uploadedImage(w, r, maxUpload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		var position *int
		if raw := strings.TrimSpace(r.FormValue("orden")); raw != "" {
			value, convErr := strconv.Atoi(raw)
			if convErr != nil || value < 0 {
				responses.WriteError(r.Context(), logg, w, fieldError("orden", "Introduzca un número entero válido."))
				return
			}
			position = &value
		}

		image, err := svc.AddImage(r.Context(), id, position, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

func PartImageDelete(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "parts")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseUUIDParam(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteImage(r.Context(), id, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func uploadedImage(w http.ResponseWriter, r *http.Request, maxUpload int64) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Formulario inválido.").
			WithDetails(map[string]string{"image": "No se envió ningún archivo."})
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, fieldError("image", "No se envió ningún archivo.")
	}
	return file, nil
}

func partInputFromForm(r *http.Request) (parts.PartInput, error) {
	var input parts.PartInput
	text := func(key string) *string {
		if _, ok := r.MultipartForm.Value[key]; !ok {
			return nil
		}
		value := r.FormValue(key)
		return &value
	}

	input.Name = text("name")
	input.Brand = text("brand")
	input.Model = text("model")
	input.SKU = text("sku")
	input.Description = text("description")

	if raw := text("category_id"); raw != nil && strings.TrimSpace(*raw) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*raw))
		if err != nil {
			return input, fieldError("category_id", "UUID inválido.")
		}
		input.CategoryID = &id
	}
	if raw := text("year"); raw != nil && strings.TrimSpace(*raw) != "" {
		year, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return input, fieldError("year", "Introduzca un número entero válido.")
		}
		input.Year = &year
	}
	if raw := text("stock"); raw != nil && strings.TrimSpace(*raw) != "" {
		stock, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return input, fieldError("stock", "Introduzca un número entero válido.")
		}
		input.Stock = &stock
	}
	if raw := text("price"); raw != nil && strings.TrimSpace(*raw) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(*raw))
		if err != nil {
			return input, fieldError("price", "Introduzca un número válido.")
		}
		input.Price = &price
	}
	return input, validators.Struct(&input)
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").WithDetails(map[string]string{field: message})
}
