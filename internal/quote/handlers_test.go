package quote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pricing-calculator/internal/pricing"
	"github.com/noah-isme/pricing-calculator/internal/quote"
)

type quoteResponse struct {
	Data quote.Quote `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newRouter() http.Handler {
	handler := quote.NewHandler(&quote.Service{Logger: zerolog.Nop(), NewID: func() string { return "fixed" }})
	r := chi.NewRouter()
	r.Route("/api/v1", func(v chi.Router) {
		v.Post("/quotes/percent", handler.Percent)
		v.Post("/quotes/coupon", handler.Coupon)
		v.Get("/coupons", handler.Coupons)
	})
	return r
}

func do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func TestPercentQuote(t *testing.T) {
	rec := do(t, http.MethodPost, "/api/v1/quotes/percent", `{"price":100,"discountPercent":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "fixed", resp.Data.ID)
	require.InDelta(t, 90.0, resp.Data.DiscountedPrice, 1e-9)
	require.InDelta(t, 10.0, resp.Data.DiscountAmount, 1e-9)
	require.Equal(t, "90.00", resp.Data.Display)
}

func TestPercentQuoteBoundaries(t *testing.T) {
	rec := do(t, http.MethodPost, "/api/v1/quotes/percent", `{"price":0,"discountPercent":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, http.MethodPost, "/api/v1/quotes/percent", `{"price":100,"discountPercent":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0.0, resp.Data.DiscountedPrice)
}

func TestPercentQuoteInvalidInput(t *testing.T) {
	cases := map[string]string{
		"negative price":   `{"price":-1,"discountPercent":10}`,
		"percent too high": `{"price":100,"discountPercent":150}`,
		"negative percent": `{"price":100,"discountPercent":-10}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, http.MethodPost, "/api/v1/quotes/percent", body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, "INVALID_INPUT", resp.Error.Code)
			require.True(t, strings.HasPrefix(resp.Error.Message, "invalid input: "))
		})
	}
}

func TestPercentQuoteMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"price":`,
		"missing field": `{"price":100}`,
		"null price":    `{"price":null,"discountPercent":10}`,
		"unknown field": `{"price":100,"discountPercent":10,"currency":"EUR"}`,
		"string price":  `{"price":"100","discountPercent":10}`,
		"trailing data": `{"price":100,"discountPercent":10} {"price":-5} garbage`,
		"second object": `{"price":100,"discountPercent":10}{}`,
		"stray brace":   `{"price":100,"discountPercent":10}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, http.MethodPost, "/api/v1/quotes/percent", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, "BAD_REQUEST", resp.Error.Code)
		})
	}
}

func TestMissingFieldsReportedByJSONName(t *testing.T) {
	rec := do(t, http.MethodPost, "/api/v1/quotes/coupon", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.ElementsMatch(t, []any{"price:required", "couponCode:required"}, resp.Error.Details["fields"])
}

func TestCouponQuote(t *testing.T) {
	cases := []struct {
		price    string
		code     string
		expected float64
	}{
		{"100", "SUMMER10", 90},
		{"200", "WINTER15", 170},
		{"300", "SPRING20", 240},
		{"400", "BLACKFRIDAY", 280},
		{"500", "NEWYEAR", 375},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := do(t, http.MethodPost, "/api/v1/quotes/coupon", `{"price":`+tc.price+`,"couponCode":"`+tc.code+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			var resp quoteResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.InDelta(t, tc.expected, resp.Data.DiscountedPrice, 1e-9)
			require.Equal(t, tc.code, resp.Data.CouponCode)
		})
	}
}

func TestCouponQuoteUnknownCode(t *testing.T) {
	for _, code := range []string{"summer10", "", "INVALID"} {
		rec := do(t, http.MethodPost, "/api/v1/quotes/coupon", `{"price":100,"couponCode":"`+code+`"}`)
		require.Equal(t, http.StatusNotFound, rec.Code, "code %q", code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "UNKNOWN_COUPON", resp.Error.Code)
		require.Equal(t, code, resp.Error.Details["couponCode"])
	}
}

func TestCouponQuoteNegativePriceWinsOverUnknownCode(t *testing.T) {
	rec := do(t, http.MethodPost, "/api/v1/quotes/coupon", `{"price":-100,"couponCode":"NOPE"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListCoupons(t *testing.T) {
	rec := do(t, http.MethodGet, "/api/v1/coupons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []pricing.Coupon `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, pricing.Coupons(), resp.Data)
}
