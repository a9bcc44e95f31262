package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/api/middleware"
	"github.com/carshop-ar/carshop-backend/api/responses"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

// currentUser returns the authenticated user id or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Las credenciales de autenticación no se proveyeron."))
		return uuid.Nil, false
	}
	return id, true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

func bearer(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
