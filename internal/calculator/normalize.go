package calculator

import (
	"math"
	"strings"

	"github.com/voltdesk/voltdesk-backend/internal/models"
)

const (
	MinAmbientC = -20
	MaxAmbientC = 90

	DefaultVdropPercent         = 5.0
	SensitiveLoadVdropPercent   = 3.0
	DefaultFaultAtLoadFraction  = 0.1
	DefaultDisconnectionTimeS   = 0.4
	MaxAdiabaticDisconnectionS  = 5.0
	maxAllowableVdropPercentCap = 100.0
)

// Load types whose equipment is sensitive to supply voltage.
var sensitiveLoadTypes = map[string]bool{
	"lighting":    true,
	"data_center": true,
}

// Input is a validated request with every optional field resolved.
type Input struct {
	System                VoltageSystem
	Voltage               float64
	LoadPowerKW           float64
	PowerFactor           float64
	CableLengthM          float64
	Material              Material
	Insulation            Insulation
	Method                InstallationMethod
	AmbientC              int
	AllowableVdropPercent float64

	// ShortCircuit is nil when the check is disabled.
	ShortCircuit *ShortCircuitInput
}

type ShortCircuitInput struct {
	SourceFaultKA       float64  // prospective fault current at the source panel, 0 if unknown
	LoadFaultKA         *float64 // measured or calculated fault current at the load end
	DisconnectionTimeS  float64
	FaultAtLoadFraction float64 // attenuation applied to SourceFaultKA when LoadFaultKA is nil
}

// NormalizeLoadType folds the spellings the form has used over time
// ("Data-Center", "data center") onto one token.
func NormalizeLoadType(loadType string) string {
	t := strings.ToLower(strings.TrimSpace(loadType))
	t = strings.NewReplacer("-", "_", " ", "_").Replace(t)
	if t == "datacenter" {
		t = "data_center"
	}
	return t
}

// DefaultVdropForLoadType mirrors the form's default for allowable_vdrop_percent.
func DefaultVdropForLoadType(loadType *string) float64 {
	if loadType != nil && sensitiveLoadTypes[NormalizeLoadType(*loadType)] {
		return SensitiveLoadVdropPercent
	}
	return DefaultVdropPercent
}

// Normalize validates req and resolves defaults. The first failing rule is
// returned as a *ValidationError.
func Normalize(req models.CableSizeRequest) (Input, error) {
	var in Input
	var ok bool

	if in.System, ok = parseVoltageSystem(req.VoltageSystem); !ok {
		return Input{}, invalid("voltage_system", "must be one of single_phase, three_phase (got %q)", req.VoltageSystem)
	}
	if !(req.Voltage > 0) {
		return Input{}, invalid("voltage", "must be greater than 0 V (got %g)", req.Voltage)
	}
	if !(req.LoadPowerKW > 0) {
		return Input{}, invalid("load_power_kw", "must be greater than 0 kW (got %g)", req.LoadPowerKW)
	}
	if !(req.PowerFactor > 0 && req.PowerFactor <= 1) {
		return Input{}, invalid("power_factor", "must be greater than 0 and at most 1 (got %g)", req.PowerFactor)
	}
	if !(req.CableLengthM > 0) {
		return Input{}, invalid("cable_length_m", "must be greater than 0 m (got %g)", req.CableLengthM)
	}
	if in.Material, ok = parseMaterial(req.Material); !ok {
		return Input{}, invalid("material", "must be one of copper, aluminum (got %q)", req.Material)
	}
	if in.Insulation, ok = parseInsulation(req.Insulation); !ok {
		return Input{}, invalid("insulation", "must be one of XLPE, PVC (got %q)", req.Insulation)
	}
	if in.Method, ok = parseInstallationMethod(req.InstallationMethod); !ok {
		return Input{}, invalid("installation_method",
			"must be one of in_air_spaced, clipped_direct, conduit_surface, conduit_embedded, buried_direct, buried_in_duct (got %q)",
			req.InstallationMethod)
	}
	if req.AmbientTemperatureC < MinAmbientC || req.AmbientTemperatureC > MaxAmbientC {
		return Input{}, invalid("ambient_temperature_c", "must be between %d and %d °C (got %d)",
			MinAmbientC, MaxAmbientC, req.AmbientTemperatureC)
	}

	in.Voltage = req.Voltage
	in.LoadPowerKW = req.LoadPowerKW
	in.PowerFactor = req.PowerFactor
	in.CableLengthM = req.CableLengthM
	in.AmbientC = req.AmbientTemperatureC

	if req.AllowableVdropPercent == nil {
		in.AllowableVdropPercent = DefaultVdropForLoadType(req.LoadType)
	} else {
		v := *req.AllowableVdropPercent
		if !(v > 0 && v <= maxAllowableVdropPercentCap) {
			return Input{}, invalid("allowable_vdrop_percent", "must be greater than 0 and at most 100 (got %g)", v)
		}
		in.AllowableVdropPercent = v
	}

	if req.EnableShortCircuitCheck {
		sc, err := normalizeShortCircuit(req)
		if err != nil {
			return Input{}, err
		}
		in.ShortCircuit = sc
	}
	if err := checkMagnitudes(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// checkMagnitudes rejects inputs whose derived quantities overflow float64.
// Voltage drop falls with size, so the smallest standard size bounds it.
func checkMagnitudes(in Input) error {
	current := LoadCurrent(in.System, in.Voltage, in.LoadPowerKW, in.PowerFactor)
	if !finite(current) {
		return invalid("load_power_kw", "of %g kW at %g V gives a load current out of range", in.LoadPowerKW, in.Voltage)
	}
	if rho, err := resistivityFor(in.Material); err == nil && len(standardSizes) > 0 {
		vd := VoltageDropPercent(in.System, rho, in.CableLengthM, standardSizes[0], current, in.PowerFactor, in.Voltage)
		if !finite(vd) {
			return invalid("cable_length_m", "of %g m gives a voltage drop out of range", in.CableLengthM)
		}
	}
	if in.ShortCircuit != nil && !finite(FaultCurrentA(*in.ShortCircuit)*math.Sqrt(in.ShortCircuit.DisconnectionTimeS)) {
		field := "fault_current_ka"
		if in.ShortCircuit.LoadFaultKA != nil {
			field = "fault_current_at_load_ka"
		}
		return invalid(field, "gives a fault current out of range")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func normalizeShortCircuit(req models.CableSizeRequest) (*ShortCircuitInput, error) {
	if req.FaultCurrentAtLoadKA == nil && req.FaultCurrentKA == nil {
		return nil, invalid("fault_current_ka",
			"or fault_current_at_load_ka is required when enable_short_circuit_check is true")
	}

	sc := &ShortCircuitInput{
		DisconnectionTimeS:  DefaultDisconnectionTimeS,
		FaultAtLoadFraction: DefaultFaultAtLoadFraction,
	}

	if req.FaultCurrentAtLoadKA != nil {
		v := *req.FaultCurrentAtLoadKA
		if !(v > 0) {
			return nil, invalid("fault_current_at_load_ka", "must be greater than 0 kA (got %g)", v)
		}
		sc.LoadFaultKA = &v
	}
	if req.DisconnectionTimeS != nil {
		t := *req.DisconnectionTimeS
		if !(t > 0 && t <= MaxAdiabaticDisconnectionS) {
			return nil, invalid("disconnection_time_s", "must be greater than 0 and at most %g s (got %g)",
				MaxAdiabaticDisconnectionS, t)
		}
		sc.DisconnectionTimeS = t
	}
	// Source-side fields are unused once a load-side value is given.
	if sc.LoadFaultKA != nil {
		return sc, nil
	}
	v := *req.FaultCurrentKA
	if !(v > 0) {
		return nil, invalid("fault_current_ka", "must be greater than 0 kA (got %g)", v)
	}
	sc.SourceFaultKA = v
	if req.AssumeFaultAtLoadFraction != nil {
		f := *req.AssumeFaultAtLoadFraction
		if !(f > 0 && f <= 1) {
			return nil, invalid("assume_fault_at_load_fraction", "must be greater than 0 and at most 1 (got %g)", f)
		}
		sc.FaultAtLoadFraction = f
	}
	return sc, nil
}
