package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanbit-mall/storefront-api/internal/cart"
	"github.com/hanbit-mall/storefront-api/internal/pricing"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Service completes a cart session. Orders are not persisted and no payment
// is taken; completing a checkout hands the final receipt to the caller and
// resets the session to its initial state.
type Service struct {
	Carts *cart.Service
}

// Receipt is the final priced snapshot handed back at checkout.
type Receipt struct {
	CartID string             `json:"cartId"`
	Lines  []cart.ViewLine    `json:"lines"`
	Coupon *pricing.Coupon    `json:"coupon,omitempty"`
	Totals pricing.CartTotals `json:"totals"`
}

// Complete re-validates stock for every line, prices the cart one final time
// and resets the session. Stock that ran out since the items were added
// rejects the whole checkout and leaves the cart untouched.
func (s *Service) Complete(ctx context.Context, cartID string) (Receipt, error) {
	if s == nil || s.Carts == nil {
		return Receipt{}, errors.New("checkout service not configured")
	}
	view, err := s.Carts.Get(ctx, cartID)
	if err != nil {
		return Receipt{}, err
	}
	if len(view.Lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	for _, line := range view.Lines {
		if line.Quantity > line.Product.Stock {
			return Receipt{}, fmt.Errorf("%q has %d unit(s) in stock: %w",
				line.Product.ID, line.Product.Stock, cart.ErrStockUnavailable)
		}
	}
	if err := s.Carts.Reset(ctx, cartID); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		CartID: view.ID,
		Lines:  view.Lines,
		Coupon: view.Coupon,
		Totals: view.Totals,
	}, nil
}
