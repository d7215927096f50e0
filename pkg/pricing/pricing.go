// Package pricing holds the discount arithmetic shared by catalog and cart.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalUnitPrice applies a whole-percent discount to a unit price and
// rounds half-up to two decimal places. Discounts outside [0, 100] are
// clamped so a bad row can never produce a negative or inflated price.
func FinalUnitPrice(price decimal.Decimal, discountPercent int) decimal.Decimal {
	if discountPercent <= 0 {
		return price.Round(2)
	}
	if discountPercent >= 100 {
		return decimal.Zero.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - discountPercent))
	return price.Mul(factor).Div(hundred).Round(2)
}

// LineTotal is the discounted unit price multiplied by quantity, at two
// decimal places.
func LineTotal(price decimal.Decimal, discountPercent, qty int) decimal.Decimal {
	return FinalUnitPrice(price, discountPercent).Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
