package auth

import (
	"github.com/carshop-ar/carshop-backend/internal/users"
)

// LoginRequest captures the credentials sent to the token endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenResponse contains the token pair produced by login or refresh.
type TokenResponse struct {
	Access  string         `json:"access"`
	Refresh string         `json:"refresh"`
	User    *users.UserDTO `json:"user,omitempty"`
}
