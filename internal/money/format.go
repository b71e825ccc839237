// Package money renders currency amounts for display. Pricing math keeps
// full precision; rounding to cents happens here and nowhere else.
package money

import (
	"fmt"
	"math"
)

// Format renders an amount as a dollar string with two decimals, rounding
// half away from zero.
func Format(amount float64) string {
	cents := int64(math.Round(amount * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
