package assistant

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
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
)

type hookCall struct {
	sku      string
	previous int
	current  int
}

type recordingHook struct {
	calls []hookCall
}

func (h *recordingHook) StockChanged(ctx context.Context, part models.Part, previous, current int) {
	h.calls = append(h.calls, hookCall{sku: *part.SKU, previous: previous, current: current})
}

type harness struct {
	svc  Service
	conn *gorm.DB
	hook *recordingHook
	ids  map[string]uuid.UUID
}

func newHarness(t *testing.T) harness {
	t.Helper()
	conn := dbtest.Open(t)

	category := models.Category{Name: "Motor", Slug: "motor"}
	require.NoError(t, conn.Create(&category).Error)
	ids := map[string]uuid.UUID{}
	for sku, stock := range map[string]int{"BRK-01": 8, "FLT-02": 3, "BAT-03": 20} {
		code := sku
		part := models.Part{CategoryID: category.ID, Name: "Repuesto " + sku, SKU: &code, Price: decimal.NewFromInt(10), Stock: stock}
		require.NoError(t, conn.Create(&part).Error)
		ids[sku] = part.ID
	}

	hook := &recordingHook{}
	svc, err := NewService(ServiceParams{
		DB:      db.NewFromConn(conn),
		Parts:   parts.NewRepository(conn),
		Outbox:  outbox.NewService(outbox.NewRepository(conn), nil),
		Hook:    hook,
		Catalog: config.CatalogConfig{LowStockThreshold: 5, HighStockThreshold: 20},
	})
	require.NoError(t, err)
	return harness{svc: svc, conn: conn, hook: hook, ids: ids}
}

func (h harness) stock(t *testing.T, sku string) int {
	t.Helper()
	var part models.Part
	require.NoError(t, h.conn.First(&part, "id = ?", h.ids[sku]).Error)
	return part.Stock
}

func (h harness) events(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.conn.Model(&models.OutboxEvent{}).Where("event_type = ?", enums.EventPartStockChanged).Count(&n).Error)
	return n
}

func TestHandleAdjustBySKU(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.svc.Handle(ctx, uuid.New(), "subir stock sku brk-01 a 5")
	require.NoError(t, err)
	assert.Equal(t, "Stock de Repuesto BRK-01 (SKU BRK-01) actualizado: 8 → 13.", out.Message)
	assert.Equal(t, 13, h.stock(t, "BRK-01"))

	_, err = h.svc.Handle(ctx, uuid.New(), "bajar stock sku BRK-01 en 10")
	require.NoError(t, err)
	assert.Equal(t, 3, h.stock(t, "BRK-01"))

	_, err = h.svc.Handle(ctx, uuid.New(), "Reducir stock sku BRK-01 en 10")
	require.NoError(t, err)
	assert.Zero(t, h.stock(t, "BRK-01"))

	assert.Equal(t, []hookCall{
		{sku: "BRK-01", previous: 8, current: 13},
		{sku: "BRK-01", previous: 13, current: 3},
		{sku: "BRK-01", previous: 3, current: 0},
	}, h.hook.calls)
	assert.EqualValues(t, 3, h.events(t))
}

func TestHandleSetByIDAndQuery(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Handle(ctx, uuid.New(), "poner stock id "+h.ids["FLT-02"].String()+" a 25")
	require.NoError(t, err)
	assert.Equal(t, 25, h.stock(t, "FLT-02"))
	assert.Equal(t, []hookCall{{sku: "FLT-02", previous: 3, current: 25}}, h.hook.calls)

	out, err := h.svc.Handle(ctx, uuid.New(), "¿ver stock sku flt-02?")
	require.NoError(t, err)
	assert.Equal(t, "Stock de Repuesto FLT-02 (SKU FLT-02): 25 unidades.", out.Message)
}

func TestHandleSameValueDoesNotNotify(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Handle(context.Background(), uuid.New(), "poner stock sku BAT-03 a 20")
	require.NoError(t, err)
	assert.Empty(t, h.hook.calls)
	assert.Zero(t, h.events(t))
}

func TestHandleBulkCommands(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.svc.Handle(ctx, uuid.New(), "bajar stock todos en 5")
	require.NoError(t, err)
	assert.Equal(t, "Stock actualizado en 3 productos.", out.Message)
	assert.Equal(t, 3, h.stock(t, "BRK-01"))
	assert.Zero(t, h.stock(t, "FLT-02"))
	assert.Equal(t, 15, h.stock(t, "BAT-03"))
	assert.Len(t, h.hook.calls, 3)

	out, err = h.svc.Handle(ctx, uuid.New(), "poner stock todos a 3")
	require.NoError(t, err)
	assert.Equal(t, "Stock actualizado en 2 productos.", out.Message)
}

func TestHandleCounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.svc.Handle(ctx, uuid.New(), "cuantos productos hay")
	require.NoError(t, err)
	assert.Equal(t, "Hay 3 productos en el catálogo.", out.Message)

	out, err = h.svc.Handle(ctx, uuid.New(), "productos con stock bajo")
	require.NoError(t, err)
	assert.Equal(t, "Hay 1 productos con stock bajo (5 o menos unidades).", out.Message)

	out, err = h.svc.Handle(ctx, uuid.New(), "ayuda")
	require.NoError(t, err)
	assert.Contains(t, out.Message, "Comandos disponibles")
}

func TestHandleErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Handle(ctx, uuid.New(), "subir stock sku NOPE-1 a 3")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Contains(t, pkgerrors.As(err).Message(), "NOPE-1")

	missing := uuid.New()
	_, err = h.svc.Handle(ctx, uuid.New(), "stock id "+missing.String())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Contains(t, pkgerrors.As(err).Message(), missing.String())

	_, err = h.svc.Handle(ctx, uuid.New(), "vender todo")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, messageUnknown, pkgerrors.As(err).Message())

	_, err = h.svc.Handle(ctx, uuid.New(), "subir stock sku BAT-03 a 2147483647")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, 20, h.stock(t, "BAT-03"))
	assert.Empty(t, h.hook.calls)
}
