package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

func strPtr(v string) *string { return &v }

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)), config.CatalogConfig{DefaultPageSize: 2, MaxPageSize: 10})
	require.NoError(t, err)
	return svc
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Aceites y Fluidos":      "aceites-y-fluidos",
		"Suspensión":             "suspension",
		"  Ruedas  & Neumáticos": "ruedas-neumaticos",
		"Iluminación_LED":        "iluminacion-led",
		"¡!":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateDerivesSlugAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryInput{Name: strPtr("Refrigeración"), Description: strPtr("Radiadores")})
	require.NoError(t, err)
	assert.Equal(t, "refrigeracion", created.Slug)

	_, err = svc.Create(ctx, CategoryInput{Name: strPtr("Refrigeración")})
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	_, err = svc.Create(ctx, CategoryInput{Name: strPtr("  ")})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestUpdatePartialKeepsUntouchedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryInput{Name: strPtr("Frenos"), Description: strPtr("Pastillas y discos")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, CategoryInput{Slug: strPtr("Frenos Premium")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Frenos", updated.Name)
	assert.Equal(t, "frenos-premium", updated.Slug)
	assert.Equal(t, "Pastillas y discos", updated.Description)

	replaced, err := svc.Update(ctx, created.ID, CategoryInput{Name: strPtr("Frenos ABS")}, false)
	require.NoError(t, err)
	assert.Equal(t, "frenos-abs", replaced.Slug)
	assert.Empty(t, replaced.Description)

	_, err = svc.Update(ctx, uuid.New(), CategoryInput{Name: strPtr("x")}, false)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListPaginatesByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"Motor", "Aire", "Escape"} {
		_, err := svc.Create(ctx, CategoryInput{Name: strPtr(name)})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Count)
	assert.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "Aire", first.Results[0].Name)

	last, err := svc.List(ctx, pagination.Params{Page: "99"})
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page)
	require.Len(t, last.Results, 1)
	assert.Equal(t, "Motor", last.Results[0].Name)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CategoryInput{Name: strPtr("Interior")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(svc.Delete(ctx, created.ID)))
}
