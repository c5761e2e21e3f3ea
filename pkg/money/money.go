// Package money centralizes monetary arithmetic for invoicing.
//
// All document math rounds half away from zero to 2 decimal places at
// explicit points. Rounding is never carried as exact fractions between
// steps; the cent-level drift between independently rounded lines and
// re-derived totals is part of the document contract.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent converts a percentage (e.g. 18) into its fraction (0.18).
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

// ApplyDiscount returns amount reduced by discountPercent, unrounded.
func ApplyDiscount(amount, discountPercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(Percent(discountPercent)))
}

// Zero is the canonical zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}
