package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

type statusCall struct {
	previous enums.OrderStatus
	current  enums.OrderStatus
}

type recordingHook struct {
	calls []statusCall
}

func (h *recordingHook) OrderStatusChanged(ctx context.Context, order models.Order, previous, current enums.OrderStatus) {
	h.calls = append(h.calls, statusCall{previous: previous, current: current})
}

func seedUser(t *testing.T, conn *gorm.DB, username string, staff bool) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", IsStaff: staff, IsActive: true}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		UserID:  userID,
		Status:  status,
		Total:   decimal.RequireFromString("180.00"),
		Country: "Argentina",
		Items: []models.OrderItem{
			{Name: "Disco de freno", SKU: "BRK-01", Price: decimal.NewFromInt(100), Qty: 2},
		},
	}
	require.NoError(t, NewRepository(conn).Create(context.Background(), &order))
	return order
}

func newTestService(t *testing.T) (Service, *gorm.DB, *recordingHook) {
	t.Helper()
	conn := dbtest.Open(t)
	hook := &recordingHook{}
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), outbox.NewService(outbox.NewRepository(conn), nil), hook, config.CatalogConfig{})
	require.NoError(t, err)
	return svc, conn, hook
}

func TestListScopesCustomersToOwnOrders(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	juan := seedUser(t, conn, "juan", false)
	ana := seedUser(t, conn, "ana", false)
	seedOrder(t, conn, juan.ID, enums.OrderStatusPaid)
	seedOrder(t, conn, juan.ID, enums.OrderStatusShipped)
	seedOrder(t, conn, ana.ID, enums.OrderStatusPaid)

	page, err := svc.List(ctx, Viewer{UserID: juan.ID}, ListInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)
	require.NotNil(t, page.Results[0].User)
	assert.Equal(t, "juan", page.Results[0].User.Username)
	require.Len(t, page.Results[0].Items, 1)

	page, err = svc.List(ctx, Viewer{UserID: uuid.New(), IsStaff: true}, ListInput{Status: "paid", Pagination: pagination.Params{}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)

	_, err = svc.List(ctx, Viewer{UserID: juan.ID}, ListInput{Status: "lost"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetHidesOtherCustomersOrders(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	juan := seedUser(t, conn, "juan", false)
	ana := seedUser(t, conn, "ana", false)
	order := seedOrder(t, conn, juan.ID, enums.OrderStatusPaid)

	dto, err := svc.Get(ctx, Viewer{UserID: juan.ID}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pagado", dto.StatusLabel)
	assert.Equal(t, "200", dto.Items[0].Price.Mul(decimal.NewFromInt(int64(dto.Items[0].Qty))).String())

	_, err = svc.Get(ctx, Viewer{UserID: ana.ID}, order.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.Get(ctx, Viewer{UserID: ana.ID, IsStaff: true}, order.ID)
	assert.NoError(t, err)
}

func TestUpdateStatusNotifiesOnlyOnChange(t *testing.T) {
	svc, conn, hook := newTestService(t)
	ctx := context.Background()
	juan := seedUser(t, conn, "juan", false)
	admin := seedUser(t, conn, "admin", true)
	order := seedOrder(t, conn, juan.ID, enums.OrderStatusPending)
	staff := Viewer{UserID: admin.ID, IsStaff: true}

	updated, err := svc.UpdateStatus(ctx, staff, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, []statusCall{{previous: enums.OrderStatusPending, current: enums.OrderStatusShipped}}, hook.calls)

	_, err = svc.UpdateStatus(ctx, staff, order.ID, "shipped")
	require.NoError(t, err)
	assert.Len(t, hook.calls, 1, "same status does not notify")

	var events int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Where("event_type = ?", enums.EventOrderStatusChanged).Count(&events).Error)
	assert.EqualValues(t, 1, events)

	_, err = svc.UpdateStatus(ctx, Viewer{UserID: juan.ID}, order.ID, "delivered")
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = svc.UpdateStatus(ctx, staff, order.ID, "lost")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.UpdateStatus(ctx, staff, uuid.New(), "paid")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
