package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanbit-mall/storefront-api/internal/common"
	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

// CartLineSource resolves a cart session into pricing lines so listings can
// report remaining stock against that cart.
type CartLineSource interface {
	Lines(ctx context.Context, cartID string) ([]pricing.CartLine, error)
}

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
	carts   CartLineSource
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
	Carts   CartLineSource
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, carts: cfg.Carts}
}

// ProductView is a catalog entry optionally annotated with the remaining
// stock for the caller's cart.
type ProductView struct {
	pricing.Product
	RemainingStock *int `json:"remainingStock,omitempty"`
}

// Products handles GET /api/v1/products. An optional ?cart={id} query
// annotates each product with its remaining stock given that cart.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	products, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	var lines []pricing.CartLine
	if cartID := strings.TrimSpace(r.URL.Query().Get("cart")); cartID != "" && h.carts != nil {
		// A stale or unknown cart id degrades to an unannotated listing.
		lines, _ = h.carts.Lines(r.Context(), cartID)
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		view := ProductView{Product: product}
		if lines != nil {
			remaining := pricing.RemainingStock(product, lines)
			view.RemainingStock = &remaining
		}
		views = append(views, view)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
	default:
		common.RenderError(w, err)
	}
}
