package quote

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pricing-calculator/internal/pricing"
)

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))

	_, err := pricing.Calculate(-1, 10)
	appErr := MapError(err)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	require.Equal(t, "INVALID_INPUT", appErr.Code)
	require.ErrorIs(t, appErr, pricing.ErrInvalidInput)

	_, err = pricing.ApplyCoupon(10, "nope")
	appErr = MapError(fmt.Errorf("quote: %w", err))
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	require.Equal(t, map[string]string{"couponCode": "nope"}, appErr.Details)

	appErr = MapError(pricing.ErrUnknownCoupon)
	require.Equal(t, "UNKNOWN_COUPON", appErr.Code)
	require.Nil(t, appErr.Details)

	appErr = MapError(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	require.Equal(t, "internal server error", appErr.Message)
}
