package calculator

import "github.com/voltdesk/voltdesk-backend/internal/models"

// Options describes the values the calculator form may submit.
func Options() models.CableSizeOptions {
	opts := models.CableSizeOptions{
		StandardSizesMM2: StandardSizes(),
		AmbientRangeC:    [2]int{MinAmbientC, MaxAmbientC},
		ReferenceMethods: make(map[string]string, len(installationMethods)),
		VdropDefaults: map[string]float64{
			"default": DefaultVdropPercent,
		},
	}
	for _, v := range voltageSystems {
		opts.VoltageSystems = append(opts.VoltageSystems, string(v))
	}
	for _, m := range materials {
		opts.Materials = append(opts.Materials, string(m))
	}
	for _, i := range insulations {
		opts.Insulations = append(opts.Insulations, string(i))
	}
	for _, m := range installationMethods {
		opts.InstallationMethods = append(opts.InstallationMethods, string(m))
		if ref, ok := ReferenceMethod(m); ok {
			opts.ReferenceMethods[string(m)] = ref
		}
	}
	for t := range sensitiveLoadTypes {
		opts.VdropDefaults[t] = SensitiveLoadVdropPercent
	}
	return opts
}
