package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

// OptionalQueryInt returns nil when the parameter is absent.
func OptionalQueryInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el parámetro debe ser un número entero").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// OptionalQueryDecimal returns nil when the parameter is absent.
func OptionalQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el parámetro debe ser numérico").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// OptionalQueryBool accepts the usual true/false spellings plus "si"/"no".
func OptionalQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return nil, nil
	}
	var value bool
	switch raw {
	case "si", "sí", "yes", "on":
		value = true
	case "no", "off":
		value = false
	default:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el parámetro debe ser booleano").WithDetails(map[string]any{"field": key})
		}
		value = parsed
	}
	return &value, nil
}
