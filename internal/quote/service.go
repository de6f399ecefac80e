package quote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/pricing-calculator/internal/obs"
	"github.com/noah-isme/pricing-calculator/internal/pricing"
)

const (
	operationPercent = "percent"
	operationCoupon  = "coupon"
)

// Quote is the outcome of one pricing computation.
type Quote struct {
	ID              string  `json:"id"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountedPrice float64 `json:"discountedPrice"`
	CouponCode      string  `json:"couponCode,omitempty"`
	// Display is DiscountedPrice with two fraction digits. It never feeds back into
	// calculations.
	Display string `json:"display"`
}

// Service exposes the pricing calculator with logging, metrics and tracing.
type Service struct {
	Logger  zerolog.Logger
	Metrics *obs.PricingMetrics
	Tracer  trace.Tracer
	NewID   func() string
}

// Percent applies discountPercent to price.
func (s *Service) Percent(ctx context.Context, price, discountPercent float64) (Quote, error) {
	_, span := s.tracer().Start(ctx, "quote.percent", trace.WithAttributes(
		attribute.Float64("pricing.price", price),
		attribute.Float64("pricing.discount_percent", discountPercent),
	))
	defer span.End()

	discounted, err := pricing.Calculate(price, discountPercent)
	if err != nil {
		s.reject(span, operationPercent, err, zerolog.Dict().Float64("price", price).Float64("discount_percent", discountPercent))
		return Quote{}, err
	}
	s.Metrics.ObserveQuote(operationPercent, obs.ResultOK, discountPercent)
	q := s.build(price, discountPercent, discounted, "")
	s.Logger.Debug().Str("quote_id", q.ID).Float64("price", price).Float64("discount_percent", discountPercent).Float64("discounted_price", discounted).Msg("percent quote computed")
	return q, nil
}

// Coupon applies the coupon identified by code to price.
func (s *Service) Coupon(ctx context.Context, price float64, code string) (Quote, error) {
	_, span := s.tracer().Start(ctx, "quote.coupon", trace.WithAttributes(
		attribute.Float64("pricing.price", price),
		attribute.String("pricing.coupon_code", code),
	))
	defer span.End()

	discounted, err := pricing.ApplyCoupon(price, code)
	if err != nil {
		s.reject(span, operationCoupon, err, zerolog.Dict().Float64("price", price).Str("coupon_code", code))
		return Quote{}, err
	}
	percent, _ := pricing.CouponPercent(code)
	s.Metrics.ObserveQuote(operationCoupon, obs.ResultOK, percent)
	s.Metrics.ObserveRedemption(code)
	q := s.build(price, percent, discounted, code)
	s.Logger.Debug().Str("quote_id", q.ID).Float64("price", price).Str("coupon_code", code).Float64("discounted_price", discounted).Msg("coupon quote computed")
	return q, nil
}

// Coupons lists the coupon table.
func (s *Service) Coupons() []pricing.Coupon {
	return pricing.Coupons()
}

func (s *Service) reject(span trace.Span, operation string, err error, input *zerolog.Event) {
	result := resultFor(err)
	s.Metrics.ObserveQuote(operation, result, 0)
	span.RecordError(err)
	span.SetAttributes(attribute.String("pricing.result", result))
	if result == obs.ResultError {
		span.SetStatus(codes.Error, err.Error())
		s.Logger.Error().Err(err).Str("operation", operation).Dict("input", input).Msg("quote failed")
		return
	}
	s.Logger.Info().Err(err).Str("operation", operation).Dict("input", input).Msg("quote rejected")
}

func (s *Service) build(price, percent, discounted float64, code string) Quote {
	return Quote{
		ID:              s.newID(),
		Price:           price,
		DiscountPercent: percent,
		DiscountAmount:  price - discounted,
		DiscountedPrice: discounted,
		CouponCode:      code,
		Display:         decimal.NewFromFloat(discounted).StringFixed(2),
	}
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer("github.com/noah-isme/pricing-calculator/internal/quote")
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		return obs.ResultInvalidInput
	case errors.Is(err, pricing.ErrUnknownCoupon):
		return obs.ResultUnknownCoupon
	default:
		return obs.ResultError
	}
}
