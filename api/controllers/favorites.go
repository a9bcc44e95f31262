package controllers

import (
	"net/http"

	"github.com/carshop-ar/carshop-backend/api/responses"
	"github.com/carshop-ar/carshop-backend/api/validators"
	"github.com/carshop-ar/carshop-backend/internal/favorites"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

func FavoriteList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		page, err := svc.List(r.Context(), userID, pagination.ParamsFromQuery(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// FavoriteAdd answers 201 on the first add and 200 when the part was already a favorite.
func FavoriteAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body favorites.AddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		favorite, created, err := svc.Add(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, favorite)
	}
}

func FavoriteRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// FavoriteRemoveByPart removes the caller's favorite for a part id.
func FavoriteRemoveByPart(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		partID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemovePart(r.Context(), userID, partID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
