package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/carshop-ar/carshop-backend/pkg/auth"
	"github.com/carshop-ar/carshop-backend/pkg/auth/session"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/security"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "carshop", ExpirationMinutes: 30, RefreshTokenTTLMinutes: 120}

var testPassword = config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

type stubUserRepository struct {
	byName    map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
}

func newStubUserRepository(users ...*models.User) *stubUserRepository {
	repo := &stubUserRepository{byName: map[string]*models.User{}, lastLogin: map[uuid.UUID]time.Time{}}
	for _, u := range users {
		repo.byName[u.Username] = u
	}
	return repo
}

func (s *stubUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.byName[username]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byName {
		if user.ID == id {
			copy := *user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubSessionManager struct {
	sessions map[string]uuid.UUID
	revoked  []string
	startErr error
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]uuid.UUID{}}
}

func (s *stubSessionManager) Start(ctx context.Context, userID uuid.UUID) (session.Issued, error) {
	if s.startErr != nil {
		return session.Issued{}, s.startErr
	}
	accessID := uuid.NewString()
	token := accessID + ".secret"
	s.sessions[token] = userID
	return session.Issued{AccessID: accessID, RefreshToken: token}, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, provided string) (session.Issued, uuid.UUID, error) {
	userID, ok := s.sessions[provided]
	if !ok {
		return session.Issued{}, uuid.Nil, session.ErrInvalidRefreshToken
	}
	delete(s.sessions, provided)
	issued, _ := s.Start(ctx, userID)
	return issued, userID, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, users ...*models.User) (Service, *stubUserRepository, *stubSessionManager) {
	t.Helper()
	repo := newStubUserRepository(users...)
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWT})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func TestServiceLoginStaffRoleClaim(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: mustHashPassword(t, "adminpass"),
		IsStaff:      true,
		IsActive:     true,
	}
	svc, repo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "adminpass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Access)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleStaff {
		t.Fatalf("expected staff role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID || claims.Username != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.Refresh == "" {
		t.Fatal("expected refresh token")
	}
	if resp.User == nil || !resp.User.IsStaff {
		t.Fatalf("expected staff user in response, got %+v", resp.User)
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	active := &models.User{ID: uuid.New(), Username: "juan", PasswordHash: mustHashPassword(t, "secret123"), IsActive: true}
	inactive := &models.User{ID: uuid.New(), Username: "ana", PasswordHash: mustHashPassword(t, "secret123")}
	svc, _, _ := buildTestService(t, active, inactive)

	cases := []LoginRequest{
		{Username: "juan", Password: "wrong-pass"},
		{Username: "nadie", Password: "secret123"},
		{Username: "ana", Password: "secret123"},
		{Username: " ", Password: "secret123"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %q, got %v", req.Username, err)
		}
	}
}

func TestServiceLoginSessionFailure(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "juan", PasswordHash: mustHashPassword(t, "secret123"), IsActive: true}
	svc, _, sessions := buildTestService(t, user)
	sessions.startErr = errors.New("redis down")

	_, err := svc.Login(context.Background(), LoginRequest{Username: "juan", Password: "secret123"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceRefreshRotates(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "juan", PasswordHash: mustHashPassword(t, "secret123"), IsActive: true}
	svc, _, _ := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Username: "juan", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	refreshed, err := svc.Refresh(ctx, login.Refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Refresh == login.Refresh {
		t.Fatal("expected a new refresh token")
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.Access)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", claims.Role)
	}

	if _, err := svc.Refresh(ctx, login.Refresh); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected reused refresh token to fail, got %v", err)
	}
}

func TestServiceLogoutRevokes(t *testing.T) {
	svc, _, sessions := buildTestService(t)
	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("unexpected revocations %v", sessions.revoked)
	}
	if err := svc.Logout(context.Background(), ""); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty session, got %v", err)
	}
}
