package pricing

import "math"

// LineTotal prices a single cart line: the tier rate for the line's quantity,
// adjusted by the cart-wide bulk bonus, applied to price*quantity. Rounding
// happens exactly once, here, half-up; intermediate rates are never rounded.
func LineTotal(line CartLine, cart []CartLine) Money {
	base := ResolveRate(line.Quantity, line.Product.Discounts)
	rate := ApplyBulkBonus(base, cart)
	raw := float64(line.Product.Price) * float64(line.Quantity) * (1 - rate)
	return roundHalfUp(raw)
}

// Totals computes the cart's pre-discount sum and the sum of discounted line
// totals. Both are sums of independently rounded lines so they match what a
// per-line receipt would show.
func Totals(cart []CartLine) (beforeDiscount, afterItemDiscounts Money) {
	for _, line := range cart {
		beforeDiscount += line.Product.Price * Money(line.Quantity)
		afterItemDiscounts += LineTotal(line, cart)
	}
	return beforeDiscount, afterItemDiscounts
}

func roundHalfUp(v float64) Money {
	return Money(math.Floor(v + 0.5))
}
