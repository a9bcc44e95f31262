package parts

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
	"github.com/carshop-ar/carshop-backend/pkg/storage"
)

type stockCall struct {
	previous int
	current  int
}

type recordingHook struct {
	calls []stockCall
}

func (h *recordingHook) StockChanged(ctx context.Context, part models.Part, previous, current int) {
	h.calls = append(h.calls, stockCall{previous: previous, current: current})
}

type fakeStore struct {
	saveFn  func(dir string, r io.Reader) (string, error)
	deleted []string
}

func (f *fakeStore) SaveImage(ctx context.Context, dir string, r io.Reader) (string, error) {
	if f.saveFn != nil {
		return f.saveFn(dir, r)
	}
	return dir + "/" + uuid.NewString() + ".png", nil
}

func (f *fakeStore) Delete(ctx context.Context, relPath string) error {
	f.deleted = append(f.deleted, relPath)
	return nil
}

func (f *fakeStore) URL(relPath string) string {
	return "/media/" + relPath
}

type testEnv struct {
	svc      Service
	db       *gorm.DB
	hook     *recordingHook
	store    *fakeStore
	category models.Category
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)
	hook := &recordingHook{}
	store := &fakeStore{}

	category := models.Category{Name: "Frenos", Slug: "frenos"}
	require.NoError(t, conn.Create(&category).Error)

	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(conn),
		Categories: categories.NewRepository(conn),
		DB:         client,
		Outbox:     outbox.NewService(outbox.NewRepository(conn), nil),
		Hook:       hook,
		Store:      store,
		Catalog:    config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100},
	})
	require.NoError(t, err)
	return testEnv{svc: svc, db: conn, hook: hook, store: store, category: category}
}

func ptr[T any](v T) *T { return &v }

func (e testEnv) input(name, sku string, price string, stock int) PartInput {
	return PartInput{
		CategoryID: ptr(e.category.ID),
		Name:       ptr(name),
		Brand:      ptr("Toyota"),
		Model:      ptr("Corolla"),
		Year:       ptr(2018),
		SKU:        ptr(sku),
		Price:      ptr(decimal.RequireFromString(price)),
		Stock:      ptr(stock),
	}
}

func countEvents(t *testing.T, conn *gorm.DB, eventType enums.OutboxEventType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Where("event_type = ?", eventType).Count(&count).Error)
	return count
}

func TestCreateFiresStockHookFromZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.input("Disco de freno", "BRK-01", "145.50", 38))
	require.NoError(t, err)
	assert.Equal(t, "145.5", created.Price.String())
	require.NotNil(t, created.Category)
	assert.Equal(t, "frenos", created.Category.Slug)
	assert.Equal(t, []stockCall{{previous: 0, current: 38}}, env.hook.calls)
	assert.EqualValues(t, 1, countEvents(t, env.db, enums.EventPartStockChanged))
}

func TestCreateValidatesAndMapsConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, PartInput{Name: ptr("Sin precio")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "category_id")

	missingCategory := env.input("Pastillas", "BRK-02", "10", 1)
	missingCategory.CategoryID = ptr(uuid.New())
	_, err = env.svc.Create(ctx, missingCategory)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	negative := env.input("Pastillas", "BRK-02", "-1", 1)
	_, err = env.svc.Create(ctx, negative)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = env.svc.Create(ctx, env.input("Pastillas", "BRK-02", "10", 1))
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, env.input("Pastillas bis", "BRK-02", "10", 1))
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	noSKU := env.input("Genérico", " ", "5", 0)
	first, err := env.svc.Create(ctx, noSKU)
	require.NoError(t, err)
	assert.Nil(t, first.SKU)
	_, err = env.svc.Create(ctx, noSKU)
	require.NoError(t, err, "parts without sku do not collide")
}

func TestUpdateTracksStockTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.input("Amortiguador", "SUS-01", "100", 8))
	require.NoError(t, err)
	env.hook.calls = nil

	updated, err := env.svc.Update(ctx, created.ID, PartInput{Stock: ptr(5)}, true)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Amortiguador", updated.Name)
	require.NotNil(t, updated.SKU)
	assert.Equal(t, "SUS-01", *updated.SKU)

	_, err = env.svc.Update(ctx, created.ID, PartInput{Description: ptr("Trasero")}, true)
	require.NoError(t, err)

	assert.Equal(t, []stockCall{{previous: 8, current: 5}}, env.hook.calls)
	assert.EqualValues(t, 2, countEvents(t, env.db, enums.EventPartStockChanged))

	_, err = env.svc.Update(ctx, uuid.New(), PartInput{Stock: ptr(1)}, true)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = env.svc.Update(ctx, created.ID, PartInput{Name: ptr("Solo nombre")}, false)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestListFiltersSearchAndOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	motor := models.Category{Name: "Motor", Slug: "motor"}
	require.NoError(t, env.db.Create(&motor).Error)

	_, err := env.svc.Create(ctx, env.input("Disco de freno", "BRK-01", "145.50", 38))
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, env.input("Pastillas cerámicas", "BRK-02", "60", 0))
	require.NoError(t, err)
	oil := env.input("Filtro de aceite", "ENG-01", "12.90", 4)
	oil.CategoryID = ptr(motor.ID)
	oil.Brand = ptr("Ford")
	oil.Description = ptr("Para motores 1.6 100% sintético")
	_, err = env.svc.Create(ctx, oil)
	require.NoError(t, err)

	page, err := env.svc.List(ctx, ListInput{Filters: ListFilters{Category: "motor"}})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Filtro de aceite", page.Results[0].Name)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{Category: env.category.ID.String(), Ordering: "price"}})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Pastillas cerámicas", page.Results[0].Name)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{Search: "ford"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{Search: "100%"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{SKU: "brk-01"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{InStock: ptr(true), Ordering: "-price"}})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Disco de freno", page.Results[0].Name)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{MinPrice: ptr(decimal.NewFromInt(50)), MaxStock: ptr(10)}})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Pastillas cerámicas", page.Results[0].Name)

	page, err = env.svc.List(ctx, ListInput{Filters: ListFilters{Category: "no-existe"}})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Equal(t, 1, page.TotalPages)

	page, err = env.svc.List(ctx, ListInput{Pagination: pagination.Params{Page: "last", PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Results, 1)
}

func TestImagesLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.input("Faro", "LGT-01", "80", 3))
	require.NoError(t, err)

	withMain, err := env.svc.SetImage(ctx, created.ID, strings.NewReader("png"))
	require.NoError(t, err)
	require.NotNil(t, withMain.Image)
	assert.True(t, strings.HasPrefix(*withMain.Image, "/media/repuestos/"))

	_, err = env.svc.SetImage(ctx, created.ID, strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, env.store.deleted, 1, "replacing the main image removes the old file")

	first, err := env.svc.AddImage(ctx, created.ID, nil, strings.NewReader("a"))
	require.NoError(t, err)
	second, err := env.svc.AddImage(ctx, created.ID, nil, strings.NewReader("b"))
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	front, err := env.svc.AddImage(ctx, created.ID, ptr(0), strings.NewReader("c"))
	require.NoError(t, err)
	assert.Equal(t, 0, front.Position)

	images, err := env.svc.ListImages(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, second.ID, images[2].ID)

	require.NoError(t, env.svc.DeleteImage(ctx, created.ID, first.ID))
	err = env.svc.DeleteImage(ctx, created.ID, first.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	env.store.saveFn = func(string, io.Reader) (string, error) { return "", storage.ErrUnsupportedType }
	_, err = env.svc.AddImage(ctx, created.ID, nil, strings.NewReader("txt"))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	env.store.deleted = nil
	require.NoError(t, env.svc.Delete(ctx, created.ID))
	assert.Len(t, env.store.deleted, 3, "main image and remaining gallery files are removed")
	_, err = env.svc.Get(ctx, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
