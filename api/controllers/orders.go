package controllers

import (
	"net/http"
	"strings"

	"github.com/AliCapone21/nonkabob-guliston/api/middleware"
	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/api/validators"
	"github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/pagination"
)

// SubmitOrder runs the checkout workflow against the session cart.
func SubmitOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.CartStoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		identity := telegram.IdentityFromContext(r.Context())
		order, err := svc.Submit(r.Context(), identity, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderHistory returns the caller's past orders, newest first, with
// cursor pagination. Guests get an empty page.
func OrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := telegram.IdentityFromContext(r.Context())
		page, err := svc.History(r.Context(), identity, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
