package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AliCapone21/nonkabob-guliston/api/middleware"
	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/api/validators"
	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
	"github.com/AliCapone21/nonkabob-guliston/internal/products"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

type cartItemPayload struct {
	Product  products.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

type cartPayload struct {
	Items      []cartItemPayload `json:"items"`
	TotalPrice int64             `json:"total_price"`
	Count      int               `json:"count"`
}

func cartToPayload(store *cart.Store) cartPayload {
	items := store.Items()
	payload := cartPayload{Items: make([]cartItemPayload, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, cartItemPayload{Product: item.Product, Quantity: item.Quantity})
		payload.Count += item.Quantity
	}
	payload.TotalPrice = store.TotalPrice()
	return payload
}

// GetCart returns the session cart with its derived total.
func GetCart(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.CartStoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}
		responses.WriteSuccess(w, cartToPayload(store))
	}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// AddCartItem adds one unit of a catalog product to the session cart.
func AddCartItem(catalog *products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.CartStoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.FindByID(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Add(product)
		responses.WriteSuccess(w, cartToPayload(store))
	}
}

// RemoveCartItem decrements one unit of the product, dropping the line
// when the quantity reaches zero. Removing an absent product is a no-op.
func RemoveCartItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.CartStoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		store.Remove(productID)
		responses.WriteSuccess(w, cartToPayload(store))
	}
}

// ClearCart empties the session cart, dropping every line regardless of
// quantity.
func ClearCart(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.CartStoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		store.ClearAll()
		responses.WriteSuccess(w, cartToPayload(store))
	}
}
