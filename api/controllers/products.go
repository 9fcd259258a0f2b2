package controllers

import (
	"net/http"
	"strings"

	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/internal/products"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

// ListProducts serves the static menu, optionally filtered to one
// storefront tab via the category query parameter.
func ListProducts(catalog *products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("category"))
		if raw == "" {
			responses.WriteSuccess(w, map[string]any{"products": catalog.List()})
			return
		}

		category := products.Category(raw)
		switch category {
		case products.CategoryNonKabob, products.CategoryTea, products.CategoryCoffee:
		default:
			err := pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
				WithDetails(map[string]any{"category": raw})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": catalog.ListByCategory(category)})
	}
}
