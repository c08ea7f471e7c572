package calculator

import "math"

// candidate is the unrounded verdict for one standard size.
type candidate struct {
	sizeMM2            float64
	deratedAmpacityA   float64
	ampacityOK         bool
	voltageDropPercent float64
	vdropOK            bool
	shortCircuitOK     bool
}

func (c candidate) compliant() bool {
	return c.ampacityOK && c.vdropOK && c.shortCircuitOK
}

// VoltageDropPercent returns the resistive voltage drop of a run as a
// percentage of the supply voltage. Reactance is not modelled.
func VoltageDropPercent(system VoltageSystem, rho, lengthM, sizeMM2, currentA, powerFactor, voltage float64) float64 {
	r := rho * lengthM / sizeMM2
	multiplier := 2.0 // line and neutral
	if system == ThreePhase {
		multiplier = math.Sqrt(3)
	}
	dv := multiplier * currentA * r * powerFactor
	return dv / voltage * 100
}

// FaultCurrentA resolves the fault current the conductor must withstand.
// A load-side value wins; otherwise the source value is attenuated.
func FaultCurrentA(sc ShortCircuitInput) float64 {
	if sc.LoadFaultKA != nil {
		return *sc.LoadFaultKA * 1000
	}
	return sc.SourceFaultKA * 1000 * sc.FaultAtLoadFraction
}

// ShortCircuitMinSize is the adiabatic minimum cross-section
// S = I·√t / k in mm².
func ShortCircuitMinSize(sc ShortCircuitInput, mat Material, ins Insulation) (float64, error) {
	k, err := kFactorFor(mat, ins)
	if err != nil {
		return 0, err
	}
	return FaultCurrentA(sc) * math.Sqrt(sc.DisconnectionTimeS) / k, nil
}

// evaluateCandidates produces one verdict per standard size, ascending.
// scMin is nil when the short-circuit check is disabled.
func evaluateCandidates(in Input, requiredA, loadCurrentA float64, scMin *float64) ([]candidate, error) {
	column, err := ampacityColumn(in.Material, in.Insulation, in.Method)
	if err != nil {
		return nil, err
	}
	ft, err := TemperatureFactor(in.AmbientC, in.Insulation)
	if err != nil {
		return nil, err
	}
	rho, err := resistivityFor(in.Material)
	if err != nil {
		return nil, err
	}

	steps := make([]candidate, 0, len(standardSizes))
	for i, size := range standardSizes {
		derated := column[i] * ft
		vd := VoltageDropPercent(in.System, rho, in.CableLengthM, size, loadCurrentA, in.PowerFactor, in.Voltage)

		step := candidate{
			sizeMM2:            size,
			deratedAmpacityA:   derated,
			ampacityOK:         column[i] > 0 && derated >= requiredA,
			voltageDropPercent: vd,
			vdropOK:            vd <= in.AllowableVdropPercent,
			shortCircuitOK:     true,
		}
		if scMin != nil {
			step.shortCircuitOK = size >= *scMin
		}
		steps = append(steps, step)
	}
	return steps, nil
}
