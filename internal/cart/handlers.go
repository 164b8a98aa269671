package cart

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanbit-mall/storefront-api/internal/common"
	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

// Handler exposes the cart session endpoints.
type Handler struct {
	Svc *Service
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type selectCouponRequest struct {
	Code string `json:"code"`
}

// Create starts a new empty cart session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.Svc.Create(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": session})
}

// Get returns the cart contents with per-line totals and remaining stock.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// AddItem adds units of a product to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || req.Quantity <= 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "productId and a positive quantity are required", nil)
		return
	}
	view, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// UpdateItem sets a line's quantity; zero removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	view, err := h.Svc.SetQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveItem deletes a line from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// SelectCoupon applies a coupon code to the session.
func (h *Handler) SelectCoupon(w http.ResponseWriter, r *http.Request) {
	var req selectCouponRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "code is required", nil)
		return
	}
	view, err := h.Svc.SelectCoupon(r.Context(), chi.URLParam(r, "id"), code)
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// ClearCoupon removes the coupon selection.
func (h *Handler) ClearCoupon(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.ClearCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Quote prices the cart as it stands.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view.Totals})
}

func renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "cart not found", nil)
	case errors.Is(err, store.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product not found", nil)
	case errors.Is(err, ErrCouponNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "coupon not found", nil)
	case errors.Is(err, ErrStockUnavailable):
		common.JSONError(w, http.StatusConflict, common.CodeStockUnavailable, err.Error(), nil)
	case errors.Is(err, pricing.ErrCouponIneligible):
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeCouponIneligible, "cart total is below the coupon threshold", nil)
	default:
		common.RenderError(w, err)
	}
}
