package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

// ErrStockUnavailable is returned when the requested quantity would exceed
// the product's remaining stock.
var ErrStockUnavailable = errors.New("insufficient stock")

// ErrCouponNotFound is returned when the selected coupon code does not exist.
var ErrCouponNotFound = errors.New("coupon not found")

// ProductSource supplies product snapshots for pricing.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (pricing.Product, error)
	GetProducts(ctx context.Context, ids []string) (map[string]pricing.Product, error)
}

// CouponSource resolves coupon codes.
type CouponSource interface {
	GetCoupon(ctx context.Context, code string) (pricing.Coupon, error)
}

// Service owns the mutable cart/coupon session state. The pricing engine
// itself stays stateless; this service loads a snapshot, invokes the engine
// and persists the result of the mutation.
type Service struct {
	Sessions *SessionStore
	Products ProductSource
	Coupons  CouponSource
	Now      func() time.Time
}

// View is a fully materialised cart: lines joined with product snapshots,
// remaining stock per line and the current totals.
type View struct {
	ID     string             `json:"id"`
	Lines  []ViewLine         `json:"lines"`
	Coupon *pricing.Coupon    `json:"coupon,omitempty"`
	Totals pricing.CartTotals `json:"totals"`
}

// ViewLine is one cart line enriched for display.
type ViewLine struct {
	Product        pricing.Product `json:"product"`
	Quantity       int             `json:"quantity"`
	LineTotal      pricing.Money   `json:"lineTotal"`
	RemainingStock int             `json:"remainingStock"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create starts an empty session in the no-coupon state.
func (s *Service) Create(ctx context.Context) (Session, error) {
	if s == nil || s.Sessions == nil {
		return Session{}, errors.New("cart service not configured")
	}
	session := Session{ID: uuid.NewString(), UpdatedAt: s.now()}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get returns the materialised view of a session.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session)
}

// AddItem adds quantity units of a product to the cart, merging into an
// existing line for the same product. The operation is rejected with
// ErrStockUnavailable when the resulting quantity would exceed the product's
// stock; the session is left unchanged.
func (s *Service) AddItem(ctx context.Context, id, productID string, quantity int) (View, error) {
	if quantity <= 0 {
		return View{}, fmt.Errorf("quantity must be positive")
	}
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	product, err := s.Products.GetProduct(ctx, productID)
	if err != nil {
		return View{}, err
	}
	current := quantityOf(session.Lines, productID)
	remaining := product.Stock - current
	if quantity > remaining {
		left := remaining
		if left < 0 {
			left = 0
		}
		return View{}, fmt.Errorf("%q has %d unit(s) left: %w", productID, left, ErrStockUnavailable)
	}
	session.Lines = setQuantity(session.Lines, productID, current+quantity)
	return s.persist(ctx, session)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less removes
// the line rather than retaining it. Increases are gated by stock.
func (s *Service) SetQuantity(ctx context.Context, id, productID string, quantity int) (View, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if quantity <= 0 {
		session.Lines = removeLine(session.Lines, productID)
		return s.persist(ctx, session)
	}
	product, err := s.Products.GetProduct(ctx, productID)
	if err != nil {
		return View{}, err
	}
	if quantity > product.Stock {
		return View{}, fmt.Errorf("%q has %d unit(s) in stock: %w", productID, product.Stock, ErrStockUnavailable)
	}
	session.Lines = setQuantity(session.Lines, productID, quantity)
	return s.persist(ctx, session)
}

// RemoveItem deletes the line for the given product.
func (s *Service) RemoveItem(ctx context.Context, id, productID string) (View, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	session.Lines = removeLine(session.Lines, productID)
	return s.persist(ctx, session)
}

// SelectCoupon validates the coupon against the cart's current reference
// total and, on success, transitions the session to the coupon-selected
// state. The reference total is computed under the coupon that is selected
// right now, not a coupon-free baseline: switching coupons deliberately
// validates against the total under the old coupon. On failure the previous
// selection is retained.
func (s *Service) SelectCoupon(ctx context.Context, id, code string) (View, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	coupon, err := s.Coupons.GetCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return View{}, ErrCouponNotFound
		}
		return View{}, err
	}
	lines, err := s.cartLines(ctx, session)
	if err != nil {
		return View{}, err
	}
	current, err := s.currentCoupon(ctx, session)
	if err != nil {
		return View{}, err
	}
	reference := pricing.PriceCart(lines, current).TotalAfterDiscount
	if err := pricing.ValidateCoupon(coupon, reference); err != nil {
		return View{}, err
	}
	session.CouponCode = coupon.Code
	return s.persist(ctx, session)
}

// ClearCoupon always transitions the session back to the no-coupon state.
func (s *Service) ClearCoupon(ctx context.Context, id string) (View, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	session.CouponCode = ""
	return s.persist(ctx, session)
}

// Lines returns the pricing snapshot of a session's lines. Used by callers
// that need remaining-stock numbers against a specific cart.
func (s *Service) Lines(ctx context.Context, id string) ([]pricing.CartLine, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cartLines(ctx, session)
}

// Reset empties the cart and clears the coupon selection. Called after
// checkout completes.
func (s *Service) Reset(ctx context.Context, id string) error {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	session.Lines = nil
	session.CouponCode = ""
	session.UpdatedAt = s.now()
	return s.Sessions.Save(ctx, session)
}

func (s *Service) persist(ctx context.Context, session Session) (View, error) {
	session.UpdatedAt = s.now()
	if err := s.Sessions.Save(ctx, session); err != nil {
		return View{}, err
	}
	return s.view(ctx, session)
}

// cartLines joins session lines with product snapshots. Lines whose product
// no longer exists in the catalog are skipped rather than failing the cart.
func (s *Service) cartLines(ctx context.Context, session Session) ([]pricing.CartLine, error) {
	if len(session.Lines) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(session.Lines))
	for _, line := range session.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.Products.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]pricing.CartLine, 0, len(session.Lines))
	for _, line := range session.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, pricing.CartLine{Product: product, Quantity: line.Quantity})
	}
	return lines, nil
}

// currentCoupon resolves the session's selected coupon. A selection whose
// coupon has since been deleted is treated as no coupon.
func (s *Service) currentCoupon(ctx context.Context, session Session) (*pricing.Coupon, error) {
	if session.CouponCode == "" {
		return nil, nil
	}
	coupon, err := s.Coupons.GetCoupon(ctx, session.CouponCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (s *Service) view(ctx context.Context, session Session) (View, error) {
	lines, err := s.cartLines(ctx, session)
	if err != nil {
		return View{}, err
	}
	coupon, err := s.currentCoupon(ctx, session)
	if err != nil {
		return View{}, err
	}
	view := View{
		ID:     session.ID,
		Lines:  make([]ViewLine, 0, len(lines)),
		Coupon: coupon,
		Totals: pricing.PriceCart(lines, coupon),
	}
	for _, line := range lines {
		view.Lines = append(view.Lines, ViewLine{
			Product:        line.Product,
			Quantity:       line.Quantity,
			LineTotal:      pricing.LineTotal(line, lines),
			RemainingStock: pricing.RemainingStock(line.Product, lines),
		})
	}
	return view, nil
}

func quantityOf(lines []Line, productID string) int {
	for _, line := range lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

func setQuantity(lines []Line, productID string, quantity int) []Line {
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity = quantity
			return lines
		}
	}
	return append(lines, Line{ProductID: productID, Quantity: quantity})
}

func removeLine(lines []Line, productID string) []Line {
	result := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			result = append(result, line)
		}
	}
	return result
}
