package models

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds to 2 decimal places using half-up rounding.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// SafeNum converts a raw provider value into a rounded, nullable numeric.
// Nil input, NaN, and infinities all map to nil. Never panics, never
// returns NaN.
func SafeNum(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	r := Round2(f)
	return &r
}

// FormatPrice renders a price as USD currency with exactly 2 fraction
// digits, e.g. 142.5 -> "$142.50".
func FormatPrice(n float64) string {
	return "$" + decimal.NewFromFloat(n).Round(2).StringFixed(2)
}

// FormatVolume abbreviates a share count with one decimal place:
// 1_500_000 -> "1.5M". Nil renders as an em-dash placeholder.
func FormatVolume(n *float64) string {
	if n == nil {
		return "—"
	}
	v := *n
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return decimal.NewFromFloat(v).String()
	}
}

// FormatMarketCap abbreviates a market capitalization with a dollar prefix:
// 2_400_000_000_000 -> "$2.4T". Nil renders as an em-dash placeholder.
func FormatMarketCap(n *float64) string {
	if n == nil {
		return "—"
	}
	v := *n
	switch {
	case v >= 1_000_000_000_000:
		return fmt.Sprintf("$%.1fT", v/1_000_000_000_000)
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	default:
		return "$" + decimal.NewFromFloat(v).String()
	}
}

// Float64 is a convenience for building *float64 literals in callers and
// tests.
func Float64(v float64) *float64 {
	return &v
}
