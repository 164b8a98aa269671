package coupon

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/hanbit-mall/storefront-api/internal/common"
	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

// Store captures the coupon persistence methods used by the handler.
type Store interface {
	ListCoupons(ctx context.Context) ([]pricing.Coupon, error)
	GetCoupon(ctx context.Context, code string) (pricing.Coupon, error)
	CreateCoupon(ctx context.Context, coupon pricing.Coupon) error
	DeleteCoupon(ctx context.Context, code string) error
}

// SessionClearer detaches a deleted coupon from every cart session that
// still selects it.
type SessionClearer interface {
	ClearCouponEverywhere(ctx context.Context, code string) error
}

// Handler exposes administrative coupon management endpoints.
type Handler struct {
	Store    Store
	Sessions SessionClearer
	Validate *validator.Validate
}

type couponPayload struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required"`
	DiscountType  string `json:"discountType" validate:"required,oneof=amount percentage"`
	DiscountValue int64  `json:"discountValue" validate:"gte=0"`
}

// List handles GET /api/v1/admin/coupons.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon store not configured", nil)
		return
	}
	coupons, err := h.Store.ListCoupons(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": coupons})
}

// Create handles POST /api/v1/admin/coupons. Duplicate codes are rejected
// with 409 and no state change.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon store not configured", nil)
		return
	}
	var payload couponPayload
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	coupon := pricing.Coupon{
		Name:          strings.TrimSpace(payload.Name),
		Code:          strings.TrimSpace(payload.Code),
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
	}
	if coupon.DiscountType == pricing.CouponPercentage && coupon.DiscountValue > 100 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "percentage value must be in [0,100]", nil)
		return
	}
	if err := h.Store.CreateCoupon(r.Context(), coupon); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			common.JSONError(w, http.StatusConflict, common.CodeDuplicateCode, "coupon code already exists", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": coupon})
}

// Delete handles DELETE /api/v1/admin/coupons/{code}. Any cart session still
// selecting the code is forced back to the no-coupon state.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon store not configured", nil)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "code is required", nil)
		return
	}
	if err := h.Store.DeleteCoupon(r.Context(), code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "coupon not found", nil)
			return
		}
		common.RenderError(w, err)
		return
	}
	if h.Sessions != nil {
		if err := h.Sessions.ClearCouponEverywhere(r.Context(), code); err != nil {
			common.RenderError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validate(payload couponPayload) error {
	v := h.Validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New("field " + fieldErrs[0].Field() + " failed on " + fieldErrs[0].Tag())
		}
		return errors.New("validation failed")
	}
	return nil
}
