package pricing

import "math"

// Calculate returns price reduced by discountPercent percent.
//
// The price is validated before the percentage. A percentage of 0 returns the
// price unchanged and a percentage of 100 returns zero.
func Calculate(price, discountPercent float64) (float64, error) {
	if err := validatePrice(price); err != nil {
		return 0, err
	}
	if !isFinite(discountPercent) || discountPercent < 0 || discountPercent > 100 {
		return 0, errPercentRange
	}
	discount := price * (discountPercent / 100)
	return price - discount, nil
}

// ApplyCoupon resolves couponCode against the coupon table and applies the
// matching percentage to price. Codes are matched verbatim, so "summer10" is
// not SUMMER10.
func ApplyCoupon(price float64, couponCode string) (float64, error) {
	if err := validatePrice(price); err != nil {
		return 0, err
	}
	percent, ok := CouponPercent(couponCode)
	if !ok {
		return 0, &CouponError{Code: couponCode}
	}
	return Calculate(price, percent)
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return errPriceNotFinite
	}
	if price < 0 {
		return errNegativePrice
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
