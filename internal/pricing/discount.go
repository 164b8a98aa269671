package pricing

const (
	// BulkThreshold is the line quantity that unlocks the cart-wide bonus.
	BulkThreshold = 10
	// BulkBonusRate is added to every line's base rate once the cart qualifies.
	BulkBonusRate = 0.05
	// MaxDiscountRate caps the combined per-line discount rate.
	MaxDiscountRate = 0.5
)

// ResolveRate returns the best discount rate among the tiers whose quantity
// threshold is met, or 0 when none qualify. Tiers need not be sorted.
func ResolveRate(quantity int, tiers []DiscountTier) float64 {
	var best float64
	for _, tier := range tiers {
		if quantity >= tier.Quantity && tier.Rate > best {
			best = tier.Rate
		}
	}
	return best
}

// ApplyBulkBonus adds the bulk bonus to baseRate when any line in the cart
// reaches BulkThreshold units. The bonus is cart-wide: a single qualifying
// line boosts the rate of every line, small quantities included. The combined
// rate is clamped at MaxDiscountRate.
func ApplyBulkBonus(baseRate float64, cart []CartLine) float64 {
	for _, line := range cart {
		if line.Quantity >= BulkThreshold {
			adjusted := baseRate + BulkBonusRate
			if adjusted > MaxDiscountRate {
				return MaxDiscountRate
			}
			return adjusted
		}
	}
	return baseRate
}
