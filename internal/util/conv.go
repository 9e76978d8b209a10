package util

import "math"

// Round2 rounds to the two decimal digits used for stored percentages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
