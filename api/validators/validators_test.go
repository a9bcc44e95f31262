package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

type sampleBody struct {
	Username string `json:"username" validate:"required,max=5"`
	Qty      int    `json:"qty" validate:"min=1"`
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"juan","qty":2,"price":"10.00"}`))
	var body sampleBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "juan", body.Username)
	assert.Equal(t, 2, body.Qty)
}

func TestDecodeJSONBodySpanishFieldMessages(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"","qty":0}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "Este campo es obligatorio.", details["username"])
	assert.Equal(t, "Debe ser mayor o igual a 1.", details["qty"])
}

func TestDecodeJSONBodyRejectsEmptyAndMalformed(t *testing.T) {
	var body sampleBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?year=2015&min_price=10.5&in_stock=si&bad=x", nil)

	year, err := OptionalQueryInt(req, "year")
	require.NoError(t, err)
	require.NotNil(t, year)
	assert.Equal(t, 2015, *year)

	missing, err := OptionalQueryInt(req, "max_stock")
	require.NoError(t, err)
	assert.Nil(t, missing)

	price, err := OptionalQueryDecimal(req, "min_price")
	require.NoError(t, err)
	assert.Equal(t, "10.5", price.String())

	inStock, err := OptionalQueryBool(req, "in_stock")
	require.NoError(t, err)
	assert.True(t, *inStock)

	_, err = OptionalQueryInt(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = OptionalQueryBool(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseUUIDParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	_, err := ParseUUIDParam(req, "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
}
