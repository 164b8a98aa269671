package pricing

import "errors"

// MinPercentageCouponTotal is the reference total a cart must reach before a
// percentage coupon becomes eligible. Amount coupons have no minimum.
const MinPercentageCouponTotal Money = 10_000

// ErrCouponIneligible is returned when a coupon cannot be applied to the
// cart's current reference total.
var ErrCouponIneligible = errors.New("coupon not eligible")

// ValidateCoupon checks coupon eligibility against the reference total. The
// reference total is the cart's after-item-discount total computed under
// whatever coupon is currently selected, not a coupon-free baseline.
func ValidateCoupon(coupon Coupon, referenceTotal Money) error {
	if coupon.DiscountType == CouponPercentage && referenceTotal < MinPercentageCouponTotal {
		return ErrCouponIneligible
	}
	return nil
}

// ApplyCoupon reduces the total by the coupon's discount. Amount coupons are
// floored at zero; there is no validation gate for an amount value exceeding
// the total. Percentage coupons round once, half-up.
func ApplyCoupon(total Money, coupon Coupon) Money {
	switch coupon.DiscountType {
	case CouponPercentage:
		raw := float64(total) * (1 - float64(coupon.DiscountValue)/100)
		return roundHalfUp(raw)
	default:
		discounted := total - coupon.DiscountValue
		if discounted < 0 {
			return 0
		}
		return discounted
	}
}
