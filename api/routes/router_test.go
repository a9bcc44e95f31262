package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/internal/dashboard"
	pkgAuth "github.com/carshop-ar/carshop-backend/pkg/auth"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubCategories struct{}

func (stubCategories) List(context.Context, pagination.Params) (pagination.Page[categories.CategoryDTO], error) {
	return pagination.Page[categories.CategoryDTO]{Count: 0, Page: 1, PageSize: 12, TotalPages: 1, Results: []categories.CategoryDTO{}}, nil
}

func (stubCategories) Get(context.Context, uuid.UUID) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategories) Create(context.Context, categories.CategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategories) Update(context.Context, uuid.UUID, categories.CategoryInput, bool) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategories) Delete(context.Context, uuid.UUID) error {
	return nil
}

type stubDashboard struct{}

func (stubDashboard) Build(context.Context) (*dashboard.Dashboard, error) {
	return &dashboard.Dashboard{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Env: "test"},
		JWT:   config.JWTConfig{Secret: "secret", Issuer: "carshop", ExpirationMinutes: 60},
		Media: config.MediaConfig{Root: "media", URLPrefix: "/media/", MaxUploadMB: 1},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(Dependencies{
		Config:     testConfig(),
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         stubPinger{},
		Sessions:   stubSessions{},
		Categories: stubCategories{},
		Dashboard:  stubDashboard{},
	})
}

func tokenFor(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterAccessRules(t *testing.T) {
	router := newTestRouter()
	customer := tokenFor(t, enums.UserRoleCustomer)
	staff := tokenFor(t, enums.UserRoleStaff)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", "", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"anonymous category list", http.MethodGet, "/api/categorias", "", http.StatusOK},
		{"trailing slash accepted", http.MethodGet, "/api/categorias/", "", http.StatusOK},
		{"anonymous create rejected", http.MethodPost, "/api/categorias", "", http.StatusUnauthorized},
		{"customer create forbidden", http.MethodPost, "/api/categorias", customer, http.StatusForbidden},
		{"staff delete allowed", http.MethodDelete, "/api/categorias/" + uuid.NewString(), staff, http.StatusNoContent},
		{"customer dashboard forbidden", http.MethodGet, "/api/admin/dashboard", customer, http.StatusForbidden},
		{"staff dashboard", http.MethodGet, "/api/admin/dashboard", staff, http.StatusOK},
		{"orders need auth", http.MethodGet, "/api/orders", "", http.StatusUnauthorized},
		{"unwired service answers 500", http.MethodGet, "/api/orders", customer, http.StatusInternalServerError},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("%s: expected %d got %d (%s)", tt.name, tt.want, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}
