package services

import "github.com/shopspring/decimal"

// PriceTolerance is the threshold below which a posted amount is treated
// as equal to a computed one.
const PriceTolerance = 0.01

// Round2 rounds a monetary amount to 2 decimals, half away from zero.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatPrice renders an amount the way the admin screen displays money.
func FormatPrice(amount float64) string {
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}

// amountsDiffer reports whether two amounts differ beyond the tolerance.
func amountsDiffer(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff > PriceTolerance
}
