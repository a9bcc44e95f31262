package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

// ParseUUIDParam reads a chi URL parameter as a UUID. Malformed ids answer
// 404 so they are indistinguishable from missing rows.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "No encontrado.")
	}
	return id, nil
}
