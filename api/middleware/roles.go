package middleware

import (
	"net/http"

	"github.com/carshop-ar/carshop-backend/api/responses"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "No tiene permiso para realizar esta acción."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff limits a route to staff users.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(enums.UserRoleStaff, logg)
}

// IsStaff reports whether the request was authenticated as staff.
func IsStaff(r *http.Request) bool {
	return RoleFromContext(r.Context()) == string(enums.UserRoleStaff)
}
