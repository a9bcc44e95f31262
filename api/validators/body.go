package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes and validates a JSON request body. Unknown fields
// are ignored so storefront payloads carrying display data still decode.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.New(pkgerrors.CodeValidation, "El cuerpo de la solicitud está vacío.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "JSON inválido.").WithDetails(map[string]any{"error": err.Error()})
	}
	return Struct(dest)
}

// Struct runs the validator tags of dest.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "datos inválidos")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Asegúrese de que este campo tenga al menos %s caracteres.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Debe contener al menos %s elementos.", fe.Param())
		}
		return fmt.Sprintf("Debe ser mayor o igual a %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Asegúrese de que este campo no tenga más de %s caracteres.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("No puede contener más de %s elementos.", fe.Param())
		}
		return fmt.Sprintf("Debe ser menor o igual a %s.", fe.Param())
	case "email":
		return "Introduzca una dirección de correo electrónico válida."
	case "oneof":
		return fmt.Sprintf("Valor inválido. Opciones: %s.", strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return "Valor inválido."
}
