package controllers

import (
	"net/http"

	"github.com/carshop-ar/carshop-backend/api/responses"
	"github.com/carshop-ar/carshop-backend/api/validators"
	"github.com/carshop-ar/carshop-backend/internal/assistant"
	"github.com/carshop-ar/carshop-backend/internal/dashboard"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

// AdminAssistant runs one stock command written in Spanish.
func AdminAssistant(svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "assistant")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body assistant.Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reply, err := svc.Handle(r.Context(), userID, body.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reply)
	}
}

func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard")
			return
		}
		board, err := svc.Build(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}
