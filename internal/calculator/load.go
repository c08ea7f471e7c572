package calculator

import "math"

// LoadCurrent returns the line current in amperes drawn by a load of powerKW
// at the given voltage and power factor. No diversity or demand factor is
// applied.
func LoadCurrent(system VoltageSystem, voltage, powerKW, powerFactor float64) float64 {
	watts := powerKW * 1000
	if system == ThreePhase {
		return watts / (math.Sqrt(3) * voltage * powerFactor)
	}
	return watts / (voltage * powerFactor)
}
