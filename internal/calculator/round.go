package calculator

import "github.com/shopspring/decimal"

// Reported precision. Verdicts are always computed on unrounded values.
const (
	currentPlaces = 2
	vdropPlaces   = 3
	sectionPlaces = 2
)

// roundHalfAway rounds v to places decimals, halves away from zero.
func roundHalfAway(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
