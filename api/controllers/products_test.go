package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/internal/products"
)

func TestListProducts(t *testing.T) {
	catalog := products.NewCatalog()

	rec := httptest.NewRecorder()
	ListProducts(catalog, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Products []products.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data.Products, len(catalog.List()))
}

func TestListProductsFiltersByCategory(t *testing.T) {
	catalog := products.NewCatalog()

	rec := httptest.NewRecorder()
	ListProducts(catalog, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=tea", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Products []products.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotEmpty(t, body.Data.Products)
	for _, p := range body.Data.Products {
		assert.Equal(t, products.CategoryTea, p.Category)
	}
}

func TestListProductsRejectsUnknownCategory(t *testing.T) {
	catalog := products.NewCatalog()

	rec := httptest.NewRecorder()
	ListProducts(catalog, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=sushi", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
