package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

func strPtr(v string) *string { return &v }

func validUpdate() ProfileUpdateRequest {
	return ProfileUpdateRequest{
		Phone:        strPtr("1155554444"),
		DNI:          strPtr("30123456"),
		AddressLine1: strPtr("Av. Siempre Viva 742"),
		City:         strPtr("Rosario"),
		Province:     strPtr("Santa Fe"),
		PostalCode:   strPtr("2000"),
	}
}

func newTestService(t *testing.T) (Service, *Repository, *models.User) {
	t.Helper()
	db := dbtest.Open(t)
	repo := NewRepository(db)
	user, err := repo.Create(context.Background(), CreateUserDTO{Username: "juan", Email: "Juan@Example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo, user
}

func TestCreateKeepsExplicitInactive(t *testing.T) {
	_, repo, active := newTestService(t)
	assert.True(t, active.IsActive)

	inactive := false
	user, err := repo.Create(context.Background(), CreateUserDTO{Username: "ana", Email: "ana@example.com", PasswordHash: "hash", IsActive: &inactive})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestUpdateProfileCreatesAndMerges(t *testing.T) {
	svc, repo, user := newTestService(t)
	ctx := context.Background()

	profile, err := svc.UpdateProfile(ctx, user.ID, validUpdate(), false)
	require.NoError(t, err)
	assert.Equal(t, "Rosario", profile.City)
	assert.Equal(t, CountryArgentina, profile.Country)

	patched, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdateRequest{Phone: strPtr("3415556666")}, true)
	require.NoError(t, err)
	assert.Equal(t, "3415556666", patched.Phone)
	assert.Equal(t, "30123456", patched.DNI)

	stored, err := repo.FindProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "3415556666", stored.Phone)
	assert.Equal(t, "Santa Fe", stored.Province)

	var count int64
	require.NoError(t, repo.db.Model(&models.UserProfile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateProfileRejectsInvalidFields(t *testing.T) {
	svc, _, user := newTestService(t)
	req := validUpdate()
	req.Phone = strPtr("12ab")
	req.City = strPtr("Córdoba")
	req.Country = strPtr("Chile")

	_, err := svc.UpdateProfile(context.Background(), user.ID, req, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "phone")
	assert.Contains(t, details, "city")
	assert.Contains(t, details, "country")
}

func TestUpdateProfilePutRequiresAllFields(t *testing.T) {
	svc, _, user := newTestService(t)

	_, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateRequest{Phone: strPtr("1155554444")}, false)
	require.Error(t, err)
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Contains(t, details, "dni")
	assert.NotContains(t, details, "phone")
}

func TestPatchedCityIsCheckedAgainstStoredProvince(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()
	_, err := svc.UpdateProfile(ctx, user.ID, validUpdate(), false)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdateRequest{City: strPtr("Ushuaia")}, true)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestMeIncludesProfile(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "juan", me.Username)
	assert.Equal(t, "juan@example.com", me.Email)
	assert.False(t, me.IsStaff)
	assert.Nil(t, me.Profile)

	_, err = svc.UpdateProfile(ctx, user.ID, validUpdate(), false)
	require.NoError(t, err)
	me, err = svc.Me(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "Santa Fe", me.Profile.Province)

	_, err = svc.Me(ctx, uuid.New())
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestGetProfileDefaultsWhenMissing(t *testing.T) {
	svc, _, user := newTestService(t)
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, CountryArgentina, profile.Country)
	assert.Empty(t, profile.Phone)
}
