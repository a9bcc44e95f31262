package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/parts"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type env struct {
	svc  Service
	conn *gorm.DB
	juan models.User
	ana  models.User
	part models.Part
}

func newEnv(t *testing.T) env {
	t.Helper()
	conn := dbtest.Open(t)

	juan := models.User{Username: "juan", Email: "juan@example.com", PasswordHash: "x", IsActive: true}
	ana := models.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, conn.Create(&juan).Error)
	require.NoError(t, conn.Create(&ana).Error)
	category := models.Category{Name: "Suspensión", Slug: "suspension"}
	require.NoError(t, conn.Create(&category).Error)
	part := models.Part{CategoryID: category.ID, Name: "Amortiguador", Price: decimal.NewFromInt(80), Stock: 4}
	require.NoError(t, conn.Create(&part).Error)

	svc, err := NewService(NewRepository(conn), parts.NewRepository(conn), config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100})
	require.NoError(t, err)
	return env{svc: svc, conn: conn, juan: juan, ana: ana, part: part}
}

func TestSubmitTwiceUpdatesExistingReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, created, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(3), Comment: strPtr("Correcto")})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "juan", first.Username)

	second, created, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(5), Comment: strPtr(" Excelente ")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, "Excelente", second.Comment)

	var count int64
	require.NoError(t, e.conn.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitValidatesRatingAndPart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, _, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(rating)})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Equal(t, map[string]string{"rating": messageRating}, typed.Details())
	}

	_, _, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: uuid.New(), Rating: intPtr(4)})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, _, err = e.svc.Submit(ctx, e.juan.ID, ReviewInput{})
	require.Error(t, err)
	assert.Len(t, pkgerrors.As(err).Details(), 2)
}

func TestListFiltersByPart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other := models.Part{CategoryID: e.part.CategoryID, Name: "Espiral", Price: decimal.NewFromInt(50), Stock: 2}
	require.NoError(t, e.conn.Create(&other).Error)

	_, _, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(4)})
	require.NoError(t, err)
	_, _, err = e.svc.Submit(ctx, e.ana.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(2)})
	require.NoError(t, err)
	_, _, err = e.svc.Submit(ctx, e.ana.ID, ReviewInput{Repuesto: other.ID, Rating: intPtr(5)})
	require.NoError(t, err)

	all, err := e.svc.List(ctx, nil, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Count)

	filtered, err := e.svc.List(ctx, &e.part.ID, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, filtered.Count)
	for _, review := range filtered.Results {
		assert.Equal(t, e.part.ID, review.Repuesto)
		assert.NotEmpty(t, review.Username)
	}

	summary, err := e.svc.Summary(ctx, e.part.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.InDelta(t, 3.0, summary.Average, 0.001)
}

func TestMutationsRequireOwnerOrStaff(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	review, _, err := e.svc.Submit(ctx, e.juan.ID, ReviewInput{Repuesto: e.part.ID, Rating: intPtr(4), Comment: strPtr("Bien")})
	require.NoError(t, err)

	_, err = e.svc.Update(ctx, Viewer{UserID: e.ana.ID}, review.ID, ReviewInput{Rating: intPtr(1)}, true)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	assert.Equal(t, "solo el autor o el staff pueden modificar una reseña", pkgerrors.As(err).Message())
	err = e.svc.Delete(ctx, Viewer{UserID: e.ana.ID}, review.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	updated, err := e.svc.Update(ctx, Viewer{UserID: e.juan.ID}, review.ID, ReviewInput{Rating: intPtr(2)}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Bien", updated.Comment)

	_, err = e.svc.Update(ctx, Viewer{UserID: e.juan.ID}, review.ID, ReviewInput{Rating: intPtr(9)}, true)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	replaced, err := e.svc.Update(ctx, Viewer{UserID: e.ana.ID, IsStaff: true}, review.ID, ReviewInput{Rating: intPtr(3)}, false)
	require.NoError(t, err)
	assert.Empty(t, replaced.Comment)

	require.NoError(t, e.svc.Delete(ctx, Viewer{UserID: e.ana.ID, IsStaff: true}, review.ID))
	err = e.svc.Delete(ctx, Viewer{UserID: e.juan.ID}, review.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Equal(t, "reseña no encontrada", pkgerrors.As(err).Message())
}
