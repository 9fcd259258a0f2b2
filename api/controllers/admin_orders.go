package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/api/validators"
	"github.com/AliCapone21/nonkabob-guliston/internal/admin"
	orderssvc "github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

type adminOrderPayload struct {
	orderssvc.OrderDTO
	AllowedActions []enums.OrderStatus `json:"allowed_actions"`
}

// AdminListOrders refetches the board from storage and returns the full
// snapshot with the legal next moves per order.
func AdminListOrders(board *admin.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := board.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := board.Orders()
		payload := make([]adminOrderPayload, 0, len(snapshot))
		for _, order := range snapshot {
			payload = append(payload, adminOrderPayload{
				OrderDTO:       order,
				AllowedActions: board.AllowedActions(order.Status),
			})
		}

		responses.WriteSuccess(w, map[string]any{"orders": payload})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateOrderStatus applies one state-machine transition with the
// board's optimistic update and rollback semantics.
func AdminUpdateOrderStatus(board *admin.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := enums.OrderStatus(body.Status)
		if err := board.Transition(r.Context(), orderID, next); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": orderID, "status": next})
	}
}

// AdminClearOrders wipes every order and refreshes the board. The feed
// event produced by the wipe tells any other open dashboard to refetch.
func AdminClearOrders(svc orderssvc.Service, board *admin.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearAll(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := board.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
