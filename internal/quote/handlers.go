package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/pricing-calculator/internal/common"
)

var defaultValidate = NewValidator()

// Handler exposes pricing quotes over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type percentRequest struct {
	Price           *float64 `json:"price" validate:"required"`
	DiscountPercent *float64 `json:"discountPercent" validate:"required"`
}

// CouponCode is a pointer so a missing field is a malformed request while an empty
// string still reaches the coupon table and is reported as an unknown coupon.
type couponRequest struct {
	Price      *float64 `json:"price" validate:"required"`
	CouponCode *string  `json:"couponCode" validate:"required"`
}

// NewHandler wires a handler with a validator that reports fields by their JSON names.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Validate: NewValidator()}
}

// NewValidator returns a validator whose field errors use JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Percent handles POST /quotes/percent.
func (h *Handler) Percent(w http.ResponseWriter, r *http.Request) {
	var req percentRequest
	if err := h.decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	q, err := h.Svc.Percent(r.Context(), *req.Price, *req.DiscountPercent)
	if err != nil {
		common.WriteError(w, MapError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Coupon handles POST /quotes/coupon.
func (h *Handler) Coupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := h.decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	q, err := h.Svc.Coupon(r.Context(), *req.Price, *req.CouponCode)
	if err != nil {
		common.WriteError(w, MapError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Coupons handles GET /coupons.
func (h *Handler) Coupons(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Coupons()})
}

func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return common.NewAppError("BAD_REQUEST", "payload must be a single JSON object", http.StatusBadRequest, err)
	}
	validate := h.Validate
	if validate == nil {
		validate = defaultValidate
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return common.NewAppError("BAD_REQUEST", "missing required fields", http.StatusBadRequest, err).
				WithDetails(map[string]any{"fields": fieldList(verrs)})
		}
		return common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	}
	return nil
}

func fieldList(verrs validator.ValidationErrors) []string {
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return names
}
