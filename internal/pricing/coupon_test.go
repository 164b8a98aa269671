package pricing

import (
	"errors"
	"testing"
)

func TestValidateCouponPercentageThreshold(t *testing.T) {
	coupon := Coupon{Code: "PCT10", DiscountType: CouponPercentage, DiscountValue: 10}

	if err := ValidateCoupon(coupon, 9_000); !errors.Is(err, ErrCouponIneligible) {
		t.Fatalf("expected ineligible below threshold, got %v", err)
	}
	if err := ValidateCoupon(coupon, 10_000); err != nil {
		t.Fatalf("expected eligible at threshold, got %v", err)
	}
}

func TestValidateCouponAmountHasNoMinimum(t *testing.T) {
	coupon := Coupon{Code: "FLAT5K", DiscountType: CouponAmount, DiscountValue: 5_000}
	if err := ValidateCoupon(coupon, 0); err != nil {
		t.Fatalf("amount coupon should have no minimum, got %v", err)
	}
}

func TestApplyCouponAmount(t *testing.T) {
	coupon := Coupon{Code: "FLAT5K", DiscountType: CouponAmount, DiscountValue: 5_000}
	if got := ApplyCoupon(20_000, coupon); got != 15_000 {
		t.Fatalf("expected 15000, got %d", got)
	}
}

func TestApplyCouponAmountFloorsAtZero(t *testing.T) {
	coupon := Coupon{Code: "FLAT5K", DiscountType: CouponAmount, DiscountValue: 5_000}
	if got := ApplyCoupon(3_000, coupon); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
}

func TestApplyCouponPercentage(t *testing.T) {
	coupon := Coupon{Code: "PCT10", DiscountType: CouponPercentage, DiscountValue: 10}
	if got := ApplyCoupon(20_000, coupon); got != 18_000 {
		t.Fatalf("expected 18000, got %d", got)
	}
	// Rounding happens once, half-up.
	if got := ApplyCoupon(15, Coupon{DiscountType: CouponPercentage, DiscountValue: 10}); got != 14 {
		t.Fatalf("expected round(13.5)=14, got %d", got)
	}
}

func TestApplyCouponNeverNegative(t *testing.T) {
	cases := []Coupon{
		{DiscountType: CouponAmount, DiscountValue: 1_000_000},
		{DiscountType: CouponPercentage, DiscountValue: 100},
	}
	for _, coupon := range cases {
		if got := ApplyCoupon(500, coupon); got < 0 {
			t.Fatalf("negative total %d for coupon %+v", got, coupon)
		}
	}
}
