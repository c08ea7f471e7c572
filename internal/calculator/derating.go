package calculator

import "fmt"

type correctionPoint struct {
	upToC  int
	factor float64
}

// ambientCorrection is IEC 60364-5-52 Table B.52.14 (ambient air other than
// 30 °C), extended in 5 °C steps to the insulation rating where the factor
// reaches 0. Points are ascending in temperature.
var ambientCorrection = map[Insulation][]correctionPoint{
	PVC: {
		{10, 1.22}, {15, 1.17}, {20, 1.12}, {25, 1.06}, {30, 1.00},
		{35, 0.94}, {40, 0.87}, {45, 0.79}, {50, 0.71}, {55, 0.61},
		{60, 0.50}, {65, 0.35}, {70, 0},
	},
	XLPE: {
		{10, 1.15}, {15, 1.12}, {20, 1.08}, {25, 1.04}, {30, 1.00},
		{35, 0.96}, {40, 0.91}, {45, 0.87}, {50, 0.82}, {55, 0.76},
		{60, 0.71}, {65, 0.65}, {70, 0.58}, {75, 0.50}, {80, 0.41},
		{85, 0.29}, {90, 0},
	},
}

// TemperatureFactor returns Ft for an ambient temperature. Temperatures below
// the first row use the first row; temperatures between rows use the next
// warmer row. At or above the insulation rating the factor is 0.
func TemperatureFactor(ambientC int, ins Insulation) (float64, error) {
	points, ok := ambientCorrection[ins]
	if !ok || len(points) == 0 {
		return 0, &ConfigurationError{Key: string(ins), Reason: "no ambient temperature correction table"}
	}
	if ambientC >= ins.MaxOperatingTempC() {
		return 0, nil
	}
	for _, p := range points {
		if ambientC <= p.upToC {
			return clampFactor(p.factor), nil
		}
	}
	return 0, nil
}

func clampFactor(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

func checkCorrectionTable(ins Insulation) error {
	points, ok := ambientCorrection[ins]
	if !ok || len(points) == 0 {
		return &ConfigurationError{Key: string(ins), Reason: "no ambient temperature correction table"}
	}
	sawReference := false
	for i, p := range points {
		if p.upToC == 30 {
			if p.factor != 1 {
				return &ConfigurationError{Key: string(ins), Reason: "correction factor at 30 °C must be 1.0"}
			}
			sawReference = true
		}
		if i == 0 {
			continue
		}
		if p.upToC <= points[i-1].upToC {
			return &ConfigurationError{Key: string(ins), Reason: fmt.Sprintf("correction table not ascending at %d °C", p.upToC)}
		}
		if p.factor > points[i-1].factor {
			return &ConfigurationError{Key: string(ins), Reason: fmt.Sprintf("correction factor increases at %d °C", p.upToC)}
		}
	}
	if !sawReference {
		return &ConfigurationError{Key: string(ins), Reason: "correction table has no 30 °C reference row"}
	}
	if last := points[len(points)-1]; last.upToC != ins.MaxOperatingTempC() || last.factor != 0 {
		return &ConfigurationError{Key: string(ins), Reason: "correction table must end at the insulation rating with factor 0"}
	}
	return nil
}
