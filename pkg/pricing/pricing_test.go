package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angkormart/angkormart-backend/pkg/pricing"
)

func TestFinalUnitPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		discount int
		want     string
	}{
		{"no discount", "19.99", 0, "19.99"},
		{"ten percent", "19.99", 10, "17.99"},
		{"third off keeps cents exact", "10.00", 33, "6.70"},
		{"rounds half up", "0.99", 50, "0.50"},
		{"full discount", "42.00", 100, "0.00"},
		{"negative discount clamped", "5.00", -10, "5.00"},
		{"over-100 discount clamped", "5.00", 150, "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price := decimal.RequireFromString(tc.price)
			got := pricing.FinalUnitPrice(price, tc.discount)
			if got.StringFixed(2) != tc.want {
				t.Fatalf("FinalUnitPrice(%s, %d) = %s, want %s", tc.price, tc.discount, got.StringFixed(2), tc.want)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	got := pricing.LineTotal(price, 10, 3)
	if got.StringFixed(2) != "53.97" {
		t.Fatalf("LineTotal = %s, want 53.97", got.StringFixed(2))
	}
}
