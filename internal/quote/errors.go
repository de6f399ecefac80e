package quote

import (
	"errors"
	"net/http"

	"github.com/noah-isme/pricing-calculator/internal/common"
	"github.com/noah-isme/pricing-calculator/internal/pricing"
)

// MapError translates pricing errors into API errors. Both domain kinds are caller
// mistakes and map to 4xx; anything else is an internal failure.
func MapError(err error) *common.AppError {
	if err == nil {
		return nil
	}
	var couponErr *pricing.CouponError
	switch {
	case errors.As(err, &couponErr):
		return common.NewAppError("UNKNOWN_COUPON", err.Error(), http.StatusNotFound, err).
			WithDetails(map[string]string{"couponCode": couponErr.Code})
	case errors.Is(err, pricing.ErrUnknownCoupon):
		return common.NewAppError("UNKNOWN_COUPON", err.Error(), http.StatusNotFound, err)
	case errors.Is(err, pricing.ErrInvalidInput):
		return common.NewAppError("INVALID_INPUT", err.Error(), http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "internal server error", http.StatusInternalServerError, err)
	}
}
