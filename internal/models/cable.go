package models

// CableSizeRequest is the payload posted by the cable calculator form.
// Nullable form fields are pointers so an explicit null and an omitted key
// both decode to nil.
type CableSizeRequest struct {
	VoltageSystem       string  `json:"voltage_system" yaml:"voltage_system"`
	Voltage             float64 `json:"voltage" yaml:"voltage"`               // V
	LoadPowerKW         float64 `json:"load_power_kw" yaml:"load_power_kw"`   // kW
	PowerFactor         float64 `json:"power_factor" yaml:"power_factor"`     // 0 < pf <= 1
	CableLengthM        float64 `json:"cable_length_m" yaml:"cable_length_m"` // one-way run, m
	Material            string  `json:"material" yaml:"material"`
	Insulation          string  `json:"insulation" yaml:"insulation"`
	InstallationMethod  string  `json:"installation_method" yaml:"installation_method"`
	AmbientTemperatureC int     `json:"ambient_temperature_c" yaml:"ambient_temperature_c"`

	LoadType              *string  `json:"load_type" yaml:"load_type"`
	AllowableVdropPercent *float64 `json:"allowable_vdrop_percent" yaml:"allowable_vdrop_percent"`

	EnableShortCircuitCheck   bool     `json:"enable_short_circuit_check" yaml:"enable_short_circuit_check"`
	FaultCurrentKA            *float64 `json:"fault_current_ka" yaml:"fault_current_ka"`
	DisconnectionTimeS        *float64 `json:"disconnection_time_s" yaml:"disconnection_time_s"`
	FaultCurrentAtLoadKA      *float64 `json:"fault_current_at_load_ka" yaml:"fault_current_at_load_ka"`
	AssumeFaultAtLoadFraction *float64 `json:"assume_fault_at_load_fraction" yaml:"assume_fault_at_load_fraction"`
}

// CableSizeResult is what the calculator page renders.
type CableSizeResult struct {
	FinalSelection *CableSelection `json:"final_selection" yaml:"final_selection"`
	FinalMessage   string          `json:"final_message" yaml:"final_message"`
	DerivedValues  DerivedValues   `json:"derived_values" yaml:"derived_values"`
	Reasoning      []ReasoningStep `json:"reasoning" yaml:"reasoning"`
}

type CableSelection struct {
	SizeMM2 float64 `json:"size_mm2" yaml:"size_mm2"`
}

type DerivedValues struct {
	LoadCurrentA               float64  `json:"load_current_a" yaml:"load_current_a"`
	EffectiveRequiredAmpacityA float64  `json:"effective_required_ampacity_a" yaml:"effective_required_ampacity_a"`
	ShortCircuitMinMM2         *float64 `json:"short_circuit_min_mm2" yaml:"short_circuit_min_mm2"` // nil when the check is off
	AllowableVdropPercent      float64  `json:"allowable_vdrop_percent" yaml:"allowable_vdrop_percent"`
}

// ReasoningStep explains the verdict for one standard size.
type ReasoningStep struct {
	SizeMM2            float64 `json:"size_mm2" yaml:"size_mm2"`
	DeratedAmpacityA   float64 `json:"derated_ampacity_a" yaml:"derated_ampacity_a"`
	AmpacityOK         bool    `json:"ampacity_ok" yaml:"ampacity_ok"`
	VoltageDropPercent float64 `json:"voltage_drop_percent" yaml:"voltage_drop_percent"`
	VdropOK            bool    `json:"vdrop_ok" yaml:"vdrop_ok"`
	ShortCircuitOK     bool    `json:"short_circuit_ok" yaml:"short_circuit_ok"`
}

// CableSizeOptions lists the values the calculator form may submit.
type CableSizeOptions struct {
	VoltageSystems      []string           `json:"voltage_systems"`
	Materials           []string           `json:"materials"`
	Insulations         []string           `json:"insulations"`
	InstallationMethods []string           `json:"installation_methods"`
	ReferenceMethods    map[string]string  `json:"reference_methods"` // installation method -> IEC reference method
	StandardSizesMM2    []float64          `json:"standard_sizes_mm2"`
	AmbientRangeC       [2]int             `json:"ambient_range_c"`
	VdropDefaults       map[string]float64 `json:"vdrop_defaults"` // keyed by load type, "default" for the rest
}
