package pricing

// PriceCart answers "what does this cart cost right now". It recomputes from
// the provided snapshot on every call, mutates nothing, and is the single
// entry point the surrounding HTTP layer uses for totals. A nil coupon means
// no coupon is selected.
func PriceCart(cart []CartLine, coupon *Coupon) CartTotals {
	beforeDiscount, afterItemDiscounts := Totals(cart)
	afterDiscount := afterItemDiscounts
	if coupon != nil {
		afterDiscount = ApplyCoupon(afterItemDiscounts, *coupon)
	}
	return CartTotals{
		TotalBeforeDiscount: beforeDiscount,
		TotalAfterDiscount:  afterDiscount,
	}
}
