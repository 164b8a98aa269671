package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbit-mall/storefront-api/internal/cart"
	"github.com/hanbit-mall/storefront-api/internal/common"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Svc *Service
}

// Checkout handles POST /api/v1/carts/{id}/checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "checkout service not configured", nil)
		return
	}
	receipt, err := h.Svc.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrNotFound):
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "cart not found", nil)
		case errors.Is(err, ErrEmptyCart):
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "cart is empty", nil)
		case errors.Is(err, cart.ErrStockUnavailable):
			common.JSONError(w, http.StatusConflict, common.CodeStockUnavailable, err.Error(), nil)
		default:
			common.RenderError(w, err)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": receipt})
}
