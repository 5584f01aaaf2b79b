// Package money formats integer minor-unit amounts for display. All ledger
// arithmetic stays in int64 minor units; decimal is used only at the
// presentation boundary.
package money

import "github.com/shopspring/decimal"

// minorUnitScale is the number of minor-unit digits per major unit.
// The store operates in a single currency with two-digit minor units.
const minorUnitScale = 2

// FormatMinorUnits renders a minor-unit amount as a fixed-precision major
// unit string. Example: 55000 -> "550.00", -250 -> "-2.50".
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -minorUnitScale).StringFixed(minorUnitScale)
}
