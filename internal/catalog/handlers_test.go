package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
)

type fakeCartLines struct {
	lines map[string][]pricing.CartLine
}

func (f fakeCartLines) Lines(_ context.Context, cartID string) ([]pricing.CartLine, error) {
	lines, ok := f.lines[cartID]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return lines, nil
}

func newTestRouter(t *testing.T, fs *fakeStore, carts CartLineSource) http.Handler {
	t.Helper()
	svc, err := NewService(ServiceConfig{Store: fs})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc, Carts: carts})

	r := chi.NewRouter()
	r.Get("/products", h.Products)
	r.Get("/products/{id}", h.ProductDetail)
	return r
}

func TestProductsListsCatalog(t *testing.T) {
	fs := newFakeStore(pricing.Product{ID: "p1", Name: "mug", Price: 4_000, Stock: 10})
	router := newTestRouter(t, fs, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []ProductView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "p1", body.Data[0].ID)
	require.Nil(t, body.Data[0].RemainingStock, "no cart query means no annotation")
}

func TestProductsAnnotatesRemainingStockForCart(t *testing.T) {
	product := pricing.Product{ID: "p1", Name: "mug", Price: 4_000, Stock: 10}
	fs := newFakeStore(product)
	carts := fakeCartLines{lines: map[string][]pricing.CartLine{
		"c1": {{Product: product, Quantity: 4}},
	}}
	router := newTestRouter(t, fs, carts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?cart=c1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []ProductView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.NotNil(t, body.Data[0].RemainingStock)
	require.Equal(t, 6, *body.Data[0].RemainingStock)
}

func TestProductsToleratesUnknownCart(t *testing.T) {
	fs := newFakeStore(pricing.Product{ID: "p1", Name: "mug", Price: 4_000, Stock: 10})
	router := newTestRouter(t, fs, fakeCartLines{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?cart=ghost", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []ProductView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Nil(t, body.Data[0].RemainingStock)
}

func TestProductDetailNotFound(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/ghost", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}
