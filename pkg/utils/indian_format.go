// Package utils provides common formatting and normalization helpers for
// AgriPulse.
package utils

import (
	"fmt"
	"math"
)

// FormatINR formats an amount in Indian Rupee format. Whole amounts have no
// decimals (₹12,34,567); fractional amounts keep two (₹2,847.50).
// Uses the Indian numbering system: last 3 digits, then groups of 2.
func FormatINR(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	// Round to paise first so 41.999 does not print as ₹41.100.
	amount = math.Round(amount*100) / 100
	intPart := int64(amount)
	decPart := amount - float64(intPart)

	formatted := formatIndianNumber(intPart)
	if decPart > 0.004 {
		decStr := fmt.Sprintf("%.2f", decPart)
		formatted += decStr[1:] // skip the leading "0"
	}

	if negative {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// FormatPricePerUnit formats a price quoted per unit of quantity,
// e.g. 2306, "quintal" → "₹2,306/quintal".
func FormatPricePerUnit(price float64, unit string) string {
	if unit == "" {
		return FormatINR(price)
	}
	return FormatINR(price) + "/" + unit
}

// FormatPct formats a one-decimal percentage change with an explicit plus
// sign for gains, e.g. 4.8 → "+4.8%", -1.2 → "-1.2%", 0 → "0.0%".
func FormatPct(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	if pct == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// formatIndianNumber formats an integer with Indian grouping (last 3, then 2s).
func formatIndianNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	length := len(s)

	// Take the last 3 digits
	result := s[length-3:]
	remaining := s[:length-3]

	// Group remaining digits in pairs from right
	for len(remaining) > 0 {
		if len(remaining) > 2 {
			result = remaining[len(remaining)-2:] + "," + result
			remaining = remaining[:len(remaining)-2]
		} else {
			result = remaining + "," + result
			remaining = ""
		}
	}

	return result
}
