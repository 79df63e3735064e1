package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MinorUnits converts an amount to cents, rounding half up.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FormatMoney renders an amount as "$X.YY".
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
