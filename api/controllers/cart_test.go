package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/api/middleware"
	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
	"github.com/AliCapone21/nonkabob-guliston/internal/products"
)

func cartRequest(t *testing.T, method, target, body string, store *cart.Store) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithCartSession(req.Context(), "test-session", store))
}

func withRouteContext(ctx context.Context, rctx *chi.Context) context.Context {
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartPayload {
	t.Helper()
	var body struct {
		Data cartPayload `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Data
}

func TestGetCartEmpty(t *testing.T) {
	store := cart.NewStore()

	rec := httptest.NewRecorder()
	GetCart(nil)(rec, cartRequest(t, http.MethodGet, "/api/v1/cart", "", store))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeCart(t, rec)
	assert.Empty(t, payload.Items)
	assert.Zero(t, payload.TotalPrice)
	assert.Zero(t, payload.Count)
}

func TestAddCartItemMergesQuantity(t *testing.T) {
	catalog := products.NewCatalog()
	store := cart.NewStore()
	handler := AddCartItem(catalog, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`, store))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`, store))
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, 2, payload.Items[0].Quantity)
	assert.Equal(t, 3, payload.Count)

	want := payload.Items[0].Product.Price*2 + payload.Items[1].Product.Price
	assert.Equal(t, want, payload.TotalPrice)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	catalog := products.NewCatalog()
	store := cart.NewStore()

	rec := httptest.NewRecorder()
	AddCartItem(catalog, nil)(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":999}`, store))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.Items())
}

func TestRemoveCartItemDecrements(t *testing.T) {
	catalog := products.NewCatalog()
	store := cart.NewStore()
	product, err := catalog.FindByID(1)
	require.NoError(t, err)
	store.Add(product)
	store.Add(product)

	req := cartRequest(t, http.MethodDelete, "/api/v1/cart/items/1", "", store)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", "1")
	req = req.WithContext(withRouteContext(req.Context(), rctx))

	rec := httptest.NewRecorder()
	RemoveCartItem(nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeCart(t, rec)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 1, payload.Items[0].Quantity)
}

func TestRemoveCartItemAbsentProductIsNoOp(t *testing.T) {
	store := cart.NewStore()

	req := cartRequest(t, http.MethodDelete, "/api/v1/cart/items/42", "", store)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productID", "42")
	req = req.WithContext(withRouteContext(req.Context(), rctx))

	rec := httptest.NewRecorder()
	RemoveCartItem(nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestClearCartDropsMultiUnitLines(t *testing.T) {
	catalog := products.NewCatalog()
	store := cart.NewStore()
	product, err := catalog.FindByID(1)
	require.NoError(t, err)
	store.Add(product)
	store.Add(product)
	store.Add(product)

	rec := httptest.NewRecorder()
	ClearCart(nil)(rec, cartRequest(t, http.MethodDelete, "/api/v1/cart", "", store))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeCart(t, rec)
	assert.Empty(t, payload.Items)
	assert.Zero(t, payload.TotalPrice)
	assert.Empty(t, store.Items())
}

func TestGetCartWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCart(nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
