package pricing

import "sort"

// Coupon is one entry of the coupon table.
type Coupon struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
}

// couponRules is written once at package initialisation and only read afterwards.
var couponRules = map[string]float64{
	"SUMMER10":    10,
	"WINTER15":    15,
	"SPRING20":    20,
	"BLACKFRIDAY": 30,
	"NEWYEAR":     25,
}

// CouponPercent returns the discount percentage for code and whether the code exists.
func CouponPercent(code string) (float64, bool) {
	percent, ok := couponRules[code]
	return percent, ok
}

// Coupons returns a copy of the coupon table ordered by code.
func Coupons() []Coupon {
	out := make([]Coupon, 0, len(couponRules))
	for code, percent := range couponRules {
		out = append(out, Coupon{Code: code, Percent: percent})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
