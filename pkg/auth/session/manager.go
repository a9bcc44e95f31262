package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	redisclient "github.com/carshop-ar/carshop-backend/pkg/redis"
)

const (
	refreshTokenBytes = 32
	refreshSeparator  = "."
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// record is the value stored per access id.
type record struct {
	UserID       uuid.UUID `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
}

// Issued is a freshly stored access id plus its refresh token.
type Issued struct {
	AccessID     string
	RefreshToken string
}

// Manager handles refresh token creation, storage, and rotation.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, errors.New("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, ttl: ttl}, nil
}

// Start opens a new session for the user.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID) (Issued, error) {
	if userID == uuid.Nil {
		return Issued{}, errors.New("user id is required")
	}
	return m.issue(ctx, userID)
}

// Rotate swaps a valid refresh token for a new access id and refresh token,
// returning the session owner. The previous session is removed.
func (m *Manager) Rotate(ctx context.Context, provided string) (Issued, uuid.UUID, error) {
	accessID, ok := accessIDFromRefresh(provided)
	if !ok {
		return Issued{}, uuid.Nil, ErrInvalidRefreshToken
	}

	key := m.store.AccessSessionKey(accessID)
	rec, err := m.load(ctx, key)
	if err != nil {
		return Issued{}, uuid.Nil, err
	}
	if rec.UserID == uuid.Nil || subtle.ConstantTimeCompare([]byte(rec.RefreshToken), []byte(provided)) != 1 {
		return Issued{}, uuid.Nil, ErrInvalidRefreshToken
	}

	issued, err := m.issue(ctx, rec.UserID)
	if err != nil {
		return Issued{}, uuid.Nil, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Issued{}, uuid.Nil, err
	}
	return issued, rec.UserID, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errors.New("access id is required")
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether the access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errors.New("access id is required")
	}
	if _, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *Manager) issue(ctx context.Context, userID uuid.UUID) (Issued, error) {
	secret, err := generateRefreshToken()
	if err != nil {
		return Issued{}, err
	}
	accessID := uuid.NewString()
	token := accessID + refreshSeparator + secret
	payload, err := json.Marshal(record{UserID: userID, RefreshToken: token})
	if err != nil {
		return Issued{}, fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return Issued{}, err
	}
	return Issued{AccessID: accessID, RefreshToken: token}, nil
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return record{}, ErrInvalidRefreshToken
		}
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// accessIDFromRefresh extracts the session id a refresh token was issued for.
func accessIDFromRefresh(token string) (string, bool) {
	accessID, secret, found := strings.Cut(strings.TrimSpace(token), refreshSeparator)
	if !found || secret == "" {
		return "", false
	}
	if _, err := uuid.Parse(accessID); err != nil {
		return "", false
	}
	return accessID, true
}
