package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// DiscountTier grants a discount rate once a line reaches the minimum quantity.
// Rate is a fraction in [0,1), not a percentage.
type DiscountTier struct {
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

// Product is a read-only snapshot of a catalog entry used for pricing.
type Product struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Price     Money          `json:"price"`
	Stock     int            `json:"stock"`
	Discounts []DiscountTier `json:"discounts"`
}

// CartLine pairs a product snapshot with the quantity in the cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Coupon discount kinds.
const (
	CouponAmount     = "amount"
	CouponPercentage = "percentage"
)

// Coupon describes a discount code. DiscountValue is a currency amount for
// amount coupons and a whole number in [0,100] for percentage coupons;
// fractional percentages are deliberately not supported.
type Coupon struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	DiscountType  string `json:"discountType"`
	DiscountValue int64  `json:"discountValue"`
}

// CartTotals is the result of pricing a cart. Derived on every call, never stored.
type CartTotals struct {
	TotalBeforeDiscount Money `json:"totalBeforeDiscount"`
	TotalAfterDiscount  Money `json:"totalAfterDiscount"`
}
