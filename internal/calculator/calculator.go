// Package calculator sizes low-voltage cables. Given a load and an installation
// description it picks the smallest standard conductor cross-section that
// passes ampacity, voltage-drop and, optionally, adiabatic short-circuit
// checks, and reports the verdict for every standard size.
//
// The engine is a pure function of its input. Reference tables are package
// level and read-only, so concurrent calls need no locking.
package calculator

import (
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

// Calculate validates req and runs the engine. Input problems are returned as
// *ValidationError; incomplete reference data as *ConfigurationError. An input
// no standard size can satisfy is not an error: FinalSelection is nil.
func Calculate(req models.CableSizeRequest) (models.CableSizeResult, error) {
	in, err := Normalize(req)
	if err != nil {
		return models.CableSizeResult{}, err
	}
	return Evaluate(in)
}

// Evaluate runs the engine on an already normalized input.
func Evaluate(in Input) (models.CableSizeResult, error) {
	loadCurrent := LoadCurrent(in.System, in.Voltage, in.LoadPowerKW, in.PowerFactor)
	required := loadCurrent

	var scMin *float64
	if in.ShortCircuit != nil {
		s, err := ShortCircuitMinSize(*in.ShortCircuit, in.Material, in.Insulation)
		if err != nil {
			return models.CableSizeResult{}, err
		}
		scMin = &s
	}

	steps, err := evaluateCandidates(in, required, loadCurrent, scMin)
	if err != nil {
		return models.CableSizeResult{}, err
	}
	selected, found := selectFirstFit(steps)

	result := models.CableSizeResult{
		FinalMessage: finalMessage(steps, selected, found, scMin != nil),
		DerivedValues: models.DerivedValues{
			LoadCurrentA:               roundHalfAway(loadCurrent, currentPlaces),
			EffectiveRequiredAmpacityA: roundHalfAway(required, currentPlaces),
			AllowableVdropPercent:      in.AllowableVdropPercent,
		},
		Reasoning: make([]models.ReasoningStep, 0, len(steps)),
	}
	if scMin != nil {
		s := roundHalfAway(*scMin, sectionPlaces)
		result.DerivedValues.ShortCircuitMinMM2 = &s
	}
	if found {
		result.FinalSelection = &models.CableSelection{SizeMM2: steps[selected].sizeMM2}
	}
	for _, s := range steps {
		result.Reasoning = append(result.Reasoning, models.ReasoningStep{
			SizeMM2:            s.sizeMM2,
			DeratedAmpacityA:   roundHalfAway(s.deratedAmpacityA, currentPlaces),
			AmpacityOK:         s.ampacityOK,
			VoltageDropPercent: roundHalfAway(s.voltageDropPercent, vdropPlaces),
			VdropOK:            s.vdropOK,
			ShortCircuitOK:     s.shortCircuitOK,
		})
	}
	return result, nil
}
