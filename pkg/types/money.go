package types

import "github.com/shopspring/decimal"

// FormatAmount renders a monetary amount with two-decimal display rounding.
// Internal computation keeps full precision; rounding happens only here.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(2).StringFixed(2)
}

// FormatRate renders a dimensionless ratio (margins, markup equivalents)
// with four decimals.
func FormatRate(rate decimal.Decimal) string {
	return rate.Round(4).StringFixed(4)
}
