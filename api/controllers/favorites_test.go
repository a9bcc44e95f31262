package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/internal/favorites"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

type testFavoritesService struct {
	added    map[uuid.UUID]bool
	removed  []uuid.UUID
	byPartID []uuid.UUID
}

func (s *testFavoritesService) List(context.Context, uuid.UUID, pagination.Params) (pagination.Page[favorites.FavoriteDTO], error) {
	return pagination.Page[favorites.FavoriteDTO]{}, nil
}

func (s *testFavoritesService) Add(_ context.Context, _ uuid.UUID, req favorites.AddRequest) (*favorites.FavoriteDTO, bool, error) {
	created := !s.added[req.Repuesto]
	s.added[req.Repuesto] = true
	return &favorites.FavoriteDTO{ID: uuid.New(), Repuesto: req.Repuesto}, created, nil
}

func (s *testFavoritesService) Remove(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *testFavoritesService) RemovePart(_ context.Context, _ uuid.UUID, partID uuid.UUID) error {
	s.byPartID = append(s.byPartID, partID)
	return nil
}

func TestFavoriteAddIsIdempotent(t *testing.T) {
	svc := &testFavoritesService{added: map[uuid.UUID]bool{}}
	userID := uuid.New()
	partID := uuid.New()

	statuses := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/favorites", strings.NewReader(`{"repuesto":"`+partID.String()+`"}`))
		resp := httptest.NewRecorder()
		FavoriteAdd(svc, testLogger())(resp, asUser(req, userID, enums.UserRoleCustomer))
		statuses = append(statuses, resp.Code)
	}
	if statuses[0] != http.StatusCreated || statuses[1] != http.StatusOK {
		t.Fatalf("unexpected statuses %v", statuses)
	}
}

func TestFavoriteAddRequiresPart(t *testing.T) {
	svc := &testFavoritesService{added: map[uuid.UUID]bool{}}
	req := httptest.NewRequest(http.MethodPost, "/api/favorites", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	FavoriteAdd(svc, testLogger())(resp, asUser(req, uuid.New(), enums.UserRoleCustomer))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFavoriteRemoveRoutes(t *testing.T) {
	svc := &testFavoritesService{added: map[uuid.UUID]bool{}}
	favoriteID := uuid.New()
	partID := uuid.New()

	req := withParams(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New(), enums.UserRoleCustomer), map[string]string{"id": favoriteID.String()})
	resp := httptest.NewRecorder()
	FavoriteRemove(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}

	req = withParams(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New(), enums.UserRoleCustomer), map[string]string{"id": partID.String()})
	resp = httptest.NewRecorder()
	FavoriteRemoveByPart(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}

	if len(svc.removed) != 1 || svc.removed[0] != favoriteID {
		t.Fatalf("unexpected removals %v", svc.removed)
	}
	if len(svc.byPartID) != 1 || svc.byPartID[0] != partID {
		t.Fatalf("unexpected part removals %v", svc.byPartID)
	}
}
