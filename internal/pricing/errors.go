package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a negative or non-finite price and for a
	// discount percentage outside [0, 100].
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCoupon is returned when a coupon code has no entry in the coupon table.
	ErrUnknownCoupon = errors.New("unknown coupon")
)

var (
	errNegativePrice  = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	errPriceNotFinite = fmt.Errorf("%w: price must be a finite number", ErrInvalidInput)
	errPercentRange   = fmt.Errorf("%w: discount percent must be between 0 and 100", ErrInvalidInput)
)

// CouponError reports the code that failed the coupon table lookup.
type CouponError struct {
	Code string
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCoupon, e.Code)
}

// Unwrap lets errors.Is match ErrUnknownCoupon.
func (e *CouponError) Unwrap() error {
	return ErrUnknownCoupon
}
