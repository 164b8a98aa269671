package coupon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

type fakeStore struct {
	coupons map[string]pricing.Coupon
}

func newFakeStore(coupons ...pricing.Coupon) *fakeStore {
	f := &fakeStore{coupons: make(map[string]pricing.Coupon)}
	for _, c := range coupons {
		f.coupons[c.Code] = c
	}
	return f
}

func (f *fakeStore) ListCoupons(context.Context) ([]pricing.Coupon, error) {
	result := make([]pricing.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeStore) GetCoupon(_ context.Context, code string) (pricing.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return pricing.Coupon{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateCoupon(_ context.Context, coupon pricing.Coupon) error {
	if _, ok := f.coupons[coupon.Code]; ok {
		return store.ErrDuplicateCode
	}
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeStore) DeleteCoupon(_ context.Context, code string) error {
	if _, ok := f.coupons[code]; !ok {
		return store.ErrNotFound
	}
	delete(f.coupons, code)
	return nil
}

type recordingClearer struct {
	cleared []string
}

func (r *recordingClearer) ClearCouponEverywhere(_ context.Context, code string) error {
	r.cleared = append(r.cleared, code)
	return nil
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/coupons", h.List)
	r.Post("/coupons", h.Create)
	r.Delete("/coupons/{code}", h.Delete)
	return r
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestCreateCoupon(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(&Handler{Store: fs})

	payload := `{"name":"Welcome","code":"WELCOME5000","discountType":"amount","discountValue":5000}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coupons", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	created, ok := fs.coupons["WELCOME5000"]
	require.True(t, ok)
	require.Equal(t, pricing.CouponAmount, created.DiscountType)
	require.Equal(t, int64(5000), created.DiscountValue)
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	fs := newFakeStore(pricing.Coupon{
		Name: "Welcome", Code: "WELCOME5000",
		DiscountType: pricing.CouponAmount, DiscountValue: 5_000,
	})
	router := newTestRouter(&Handler{Store: fs})

	payload := `{"name":"Again","code":"WELCOME5000","discountType":"amount","discountValue":1000}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coupons", strings.NewReader(payload)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "DUPLICATE_CODE", errorCode(t, rec.Body.Bytes()))
	require.Equal(t, "Welcome", fs.coupons["WELCOME5000"].Name, "existing coupon must be untouched")
}

func TestCreateCouponValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"unknown discount type", `{"name":"x","code":"X","discountType":"bogus","discountValue":10}`},
		{"missing code", `{"name":"x","discountType":"amount","discountValue":10}`},
		{"negative value", `{"name":"x","code":"X","discountType":"amount","discountValue":-5}`},
		{"percentage over 100", `{"name":"x","code":"X","discountType":"percentage","discountValue":150}`},
		{"unknown field", `{"name":"x","code":"X","discountType":"amount","discountValue":10,"extra":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&Handler{Store: newFakeStore()})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coupons", strings.NewReader(tc.payload)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "BAD_REQUEST", errorCode(t, rec.Body.Bytes()))
		})
	}
}

func TestDeleteCouponClearsSessions(t *testing.T) {
	fs := newFakeStore(pricing.Coupon{
		Name: "Welcome", Code: "WELCOME5000",
		DiscountType: pricing.CouponAmount, DiscountValue: 5_000,
	})
	clearer := &recordingClearer{}
	router := newTestRouter(&Handler{Store: fs, Sessions: clearer})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/coupons/WELCOME5000", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, fs.coupons)
	require.Equal(t, []string{"WELCOME5000"}, clearer.cleared)
}

func TestDeleteCouponNotFound(t *testing.T) {
	clearer := &recordingClearer{}
	router := newTestRouter(&Handler{Store: newFakeStore(), Sessions: clearer})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/coupons/GHOST", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", errorCode(t, rec.Body.Bytes()))
	require.Empty(t, clearer.cleared, "sessions must not be touched for unknown codes")
}
