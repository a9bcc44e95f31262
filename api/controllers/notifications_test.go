package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/internal/notifications"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (pagination.Page[notifications.NotificationDTO], error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (pagination.Page[notifications.NotificationDTO], error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return pagination.Page[notifications.NotificationDTO]{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func TestListNotificationsPassesUnreadFilter(t *testing.T) {
	userID := uuid.New()
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (pagination.Page[notifications.NotificationDTO], error) {
			got = params
			return pagination.Page[notifications.NotificationDTO]{Count: 1, Page: 1, PageSize: 12, TotalPages: 1,
				Results: []notifications.NotificationDTO{{ID: uuid.New(), Message: "Stock bajo"}}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications?unread=true&page=2", nil)
	req = asUser(req, userID, enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.UserID != userID || !got.UnreadOnly || got.Page.Page != "2" {
		t.Fatalf("unexpected params %+v", got)
	}
	var page pagination.Page[notifications.NotificationDTO]
	decodeData(t, resp, &page)
	if page.Count != 1 || len(page.Results) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestListNotificationsRequiresUser(t *testing.T) {
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID) error {
			called = true
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if nid != notificationID {
				t.Fatalf("unexpected notification %s", nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/"+notificationID.String()+"/read", nil)
	req = withParams(asUser(req, userID, enums.UserRoleCustomer), map[string]string{"id": notificationID.String()})
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
	var data map[string]bool
	decodeData(t, resp, &data)
	if !data["read"] {
		t.Fatalf("unexpected body %v", data)
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &testNotificationsService{
		markReadFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notificación no encontrada")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = withParams(asUser(req, userID, enums.UserRoleCustomer), map[string]string{"id": uuid.NewString()})
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(context.Context, uuid.UUID) (int64, error) { return 3, nil },
	}
	req := asUser(httptest.NewRequest(http.MethodPost, "/", nil), uuid.New(), enums.UserRoleCustomer)
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	var data map[string]int64
	decodeData(t, resp, &data)
	if data["updated"] != 3 {
		t.Fatalf("unexpected body %v", data)
	}
}
