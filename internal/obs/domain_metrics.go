package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Quote outcomes used as the result label of PricingMetrics.QuotesTotal.
const (
	ResultOK            = "ok"
	ResultInvalidInput  = "invalid_input"
	ResultUnknownCoupon = "unknown_coupon"
	ResultError         = "error"
)

// PricingMetrics groups the collectors describing pricing traffic.
type PricingMetrics struct {
	// QuotesTotal counts quote computations by operation (percent, coupon) and result.
	QuotesTotal *prometheus.CounterVec
	// CouponRedemptions counts successful coupon applications per code.
	CouponRedemptions *prometheus.CounterVec
	// DiscountPercent records the percentage applied by successful quotes.
	DiscountPercent *prometheus.HistogramVec
}

// NewPricingMetrics registers pricing collectors on reg, or the default registerer when nil.
func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PricingMetrics{
		QuotesTotal: registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quotes_total",
			Help:      "Count of pricing quote computations by operation and outcome.",
		}, []string{"operation", "result"})),
		CouponRedemptions: registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_coupon_redemptions_total",
			Help:      "Count of successfully applied coupon codes.",
		}, []string{"code"})),
		DiscountPercent: registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_discount_percent",
			Help:      "Distribution of discount percentages applied by successful quotes.",
			Buckets:   []float64{0, 5, 10, 15, 20, 25, 30, 50, 75, 100},
		}, []string{"operation"})),
	}
}

// ObserveQuote records one quote outcome. A nil receiver is a no-op.
func (m *PricingMetrics) ObserveQuote(operation, result string, percent float64) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(operation, result).Inc()
	if result == ResultOK {
		m.DiscountPercent.WithLabelValues(operation).Observe(percent)
	}
}

// ObserveRedemption counts a successful coupon application. A nil receiver is a no-op.
func (m *PricingMetrics) ObserveRedemption(code string) {
	if m == nil {
		return
	}
	m.CouponRedemptions.WithLabelValues(code).Inc()
}
