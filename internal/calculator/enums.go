package calculator

import "strings"

type VoltageSystem string

const (
	SinglePhase VoltageSystem = "single_phase"
	ThreePhase  VoltageSystem = "three_phase"
)

type Material string

const (
	Copper   Material = "copper"
	Aluminum Material = "aluminum"
)

type Insulation string

const (
	XLPE Insulation = "XLPE"
	PVC  Insulation = "PVC"
)

// MaxOperatingTempC is the conductor temperature the insulation is rated for.
func (i Insulation) MaxOperatingTempC() int {
	if i == XLPE {
		return 90
	}
	return 70
}

type InstallationMethod string

const (
	InAirSpaced     InstallationMethod = "in_air_spaced"
	ClippedDirect   InstallationMethod = "clipped_direct"
	ConduitSurface  InstallationMethod = "conduit_surface"
	ConduitEmbedded InstallationMethod = "conduit_embedded"
	BuriedDirect    InstallationMethod = "buried_direct"
	BuriedInDuct    InstallationMethod = "buried_in_duct"
)

var (
	voltageSystems      = []VoltageSystem{SinglePhase, ThreePhase}
	materials           = []Material{Copper, Aluminum}
	insulations         = []Insulation{XLPE, PVC}
	installationMethods = []InstallationMethod{
		InAirSpaced, ClippedDirect, ConduitSurface, ConduitEmbedded, BuriedDirect, BuriedInDuct,
	}
)

func enumToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseVoltageSystem(s string) (VoltageSystem, bool) {
	for _, v := range voltageSystems {
		if enumToken(s) == string(v) {
			return v, true
		}
	}
	return "", false
}

func parseMaterial(s string) (Material, bool) {
	switch enumToken(s) {
	case "copper":
		return Copper, true
	case "aluminum", "aluminium":
		return Aluminum, true
	}
	return "", false
}

func parseInsulation(s string) (Insulation, bool) {
	switch enumToken(s) {
	case "xlpe":
		return XLPE, true
	case "pvc":
		return PVC, true
	}
	return "", false
}

func parseInstallationMethod(s string) (InstallationMethod, bool) {
	for _, m := range installationMethods {
		if enumToken(s) == string(m) {
			return m, true
		}
	}
	return "", false
}
