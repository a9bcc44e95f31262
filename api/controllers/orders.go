package controllers

import (
	"net/http"
	"strings"

	"github.com/carshop-ar/carshop-backend/api/middleware"
	"github.com/carshop-ar/carshop-backend/api/responses"
	"github.com/carshop-ar/carshop-backend/api/validators"
	"github.com/carshop-ar/carshop-backend/internal/checkout"
	"github.com/carshop-ar/carshop-backend/internal/orders"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

func orderViewer(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (orders.Viewer, bool) {
	userID, ok := currentUser(w, r, logg)
	if !ok {
		return orders.Viewer{}, false
	}
	return orders.Viewer{UserID: userID, IsStaff: middleware.IsStaff(r)}, true
}

// OrderList returns the caller's orders, or every order for staff.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		viewer, ok := orderViewer(w, r, logg)
		if !ok {
			return
		}
		input := orders.ListInput{
			Status:     strings.TrimSpace(r.URL.Query().Get("status")),
			Pagination: pagination.ParamsFromQuery(r.URL.Query()),
		}
		page, err := svc.List(r.Context(), viewer, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		viewer, ok := orderViewer(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), viewer, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCreate runs checkout for the caller's cart.
func OrderCreate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout")
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body checkout.Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Checkout(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderUpdateStatus lets staff move an order between statuses.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		viewer, ok := orderViewer(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body orders.StatusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateStatus(r.Context(), viewer, id, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
