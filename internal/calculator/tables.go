package calculator

import (
	"fmt"
	"sort"
)

// Reference data. Ampacities are the three-loaded-conductor columns of
// IEC 60364-5-52 Annex B at a 30 °C air reference; resistivity follows Annex G
// (1.25 x the 20 °C value); k-factors are from IEC 60364-5-54 / 60364-4-43.
// Everything here is read-only after package initialisation.

// standardSizes is the commercially standard cross-section series in mm².
var standardSizes = []float64{1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70, 95, 120, 150, 185, 240, 300}

// StandardSizes returns a copy of the standard cross-section series.
func StandardSizes() []float64 {
	out := make([]float64, len(standardSizes))
	copy(out, standardSizes)
	return out
}

type referenceMethod string

const (
	methodA1 referenceMethod = "A1"
	methodB1 referenceMethod = "B1"
	methodC  referenceMethod = "C"
	methodD1 referenceMethod = "D1"
	methodD2 referenceMethod = "D2"
	methodE  referenceMethod = "E"
)

// referenceMethods maps the form's installation choices onto IEC reference
// installation methods.
var referenceMethods = map[InstallationMethod]referenceMethod{
	InAirSpaced:     methodE,
	ClippedDirect:   methodC,
	ConduitSurface:  methodB1,
	ConduitEmbedded: methodA1,
	BuriedInDuct:    methodD1,
	BuriedDirect:    methodD2,
}

type ampacityKey struct {
	material   Material
	insulation Insulation
	method     referenceMethod
}

func (k ampacityKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.material, k.insulation, k.method)
}

// baseAmpacity columns are indexed like standardSizes. A value of 0 marks a
// size that is not rated for the combination (aluminium is not made in 1.5 mm²).
// Aluminium D2 is not tabulated below 16 mm²; the D1 figures stand in.
var baseAmpacity = map[ampacityKey][]float64{
	// Copper, PVC, 70 °C
	{Copper, PVC, methodA1}: {13.5, 18, 24, 31, 42, 56, 73, 89, 108, 136, 164, 188, 216, 245, 286, 328},
	{Copper, PVC, methodB1}: {15.5, 21, 28, 36, 50, 68, 89, 110, 134, 171, 207, 239, 262, 296, 346, 394},
	{Copper, PVC, methodC}:  {17.5, 24, 32, 41, 57, 76, 96, 119, 144, 184, 223, 259, 299, 341, 403, 464},
	{Copper, PVC, methodD1}: {18, 24, 30, 38, 50, 64, 82, 98, 116, 143, 169, 192, 217, 243, 280, 316},
	{Copper, PVC, methodD2}: {19, 24, 33, 41, 54, 70, 92, 110, 130, 162, 193, 220, 246, 278, 320, 359},
	{Copper, PVC, methodE}:  {18.5, 25, 34, 43, 60, 80, 101, 126, 153, 196, 238, 276, 319, 364, 430, 497},

	// Copper, XLPE, 90 °C
	{Copper, XLPE, methodA1}: {17, 23, 31, 40, 54, 73, 95, 117, 141, 179, 216, 249, 285, 324, 380, 435},
	{Copper, XLPE, methodB1}: {20, 28, 37, 48, 66, 88, 117, 144, 175, 222, 269, 312, 342, 384, 450, 514},
	{Copper, XLPE, methodC}:  {22, 30, 40, 51, 70, 94, 119, 148, 180, 232, 282, 328, 379, 434, 514, 593},
	{Copper, XLPE, methodD1}: {21, 28, 36, 44, 58, 75, 96, 115, 135, 167, 197, 223, 251, 281, 324, 365},
	{Copper, XLPE, methodD2}: {23, 30, 39, 49, 65, 84, 107, 129, 153, 188, 226, 257, 287, 324, 375, 419},
	{Copper, XLPE, methodE}:  {23, 32, 42, 54, 75, 100, 127, 158, 192, 246, 298, 346, 399, 456, 538, 621},

	// Aluminium, PVC, 70 °C
	{Aluminum, PVC, methodA1}: {0, 14, 18.5, 24, 32, 43, 57, 70, 84, 107, 129, 149, 170, 194, 227, 261},
	{Aluminum, PVC, methodB1}: {0, 16.5, 22, 28, 39, 53, 70, 86, 104, 133, 161, 186, 204, 230, 269, 306},
	{Aluminum, PVC, methodC}:  {0, 18.5, 25, 32, 44, 59, 73, 90, 110, 140, 170, 197, 227, 259, 305, 351},
	{Aluminum, PVC, methodD1}: {0, 18.5, 24, 30, 39, 50, 64, 77, 91, 112, 132, 150, 169, 190, 218, 247},
	{Aluminum, PVC, methodD2}: {0, 18.5, 24, 30, 39, 53, 69, 83, 99, 122, 148, 169, 189, 214, 250, 282},
	{Aluminum, PVC, methodE}:  {0, 19.5, 26, 33, 46, 61, 78, 96, 117, 150, 183, 212, 245, 280, 330, 381},

	// Aluminium, XLPE, 90 °C
	{Aluminum, XLPE, methodA1}: {0, 19, 25, 32, 44, 58, 76, 94, 113, 142, 171, 197, 226, 256, 300, 344},
	{Aluminum, XLPE, methodB1}: {0, 22, 29, 38, 52, 71, 93, 116, 140, 179, 217, 251, 267, 300, 351, 402},
	{Aluminum, XLPE, methodC}:  {0, 24, 32, 41, 57, 76, 96, 119, 144, 184, 223, 259, 299, 341, 403, 464},
	{Aluminum, XLPE, methodD1}: {0, 22, 29, 36, 47, 56, 73, 89, 105, 128, 154, 174, 195, 221, 253, 286},
	{Aluminum, XLPE, methodD2}: {0, 22, 29, 36, 47, 66, 83, 103, 122, 151, 179, 203, 230, 258, 297, 336},
	{Aluminum, XLPE, methodE}:  {0, 25, 33, 42, 58, 77, 97, 120, 146, 187, 227, 263, 304, 347, 409, 471},
}

// resistivity in Ω·mm²/m at conductor operating temperature.
var resistivity = map[Material]float64{
	Copper:   0.0225,
	Aluminum: 0.036,
}

type thermalKey struct {
	material   Material
	insulation Insulation
}

// kFactor is the adiabatic constant in A·√s/mm².
var kFactor = map[thermalKey]float64{
	{Copper, PVC}:    115,
	{Copper, XLPE}:   143,
	{Aluminum, PVC}:  76,
	{Aluminum, XLPE}: 94,
}

// ReferenceMethod reports the IEC reference installation method used for m.
func ReferenceMethod(m InstallationMethod) (string, bool) {
	ref, ok := referenceMethods[m]
	return string(ref), ok
}

// ampacityColumn returns the base ampacity column for a combination.
func ampacityColumn(mat Material, ins Insulation, m InstallationMethod) ([]float64, error) {
	ref, ok := referenceMethods[m]
	if !ok {
		return nil, &ConfigurationError{Key: string(m), Reason: "no reference installation method"}
	}
	key := ampacityKey{mat, ins, ref}
	col, ok := baseAmpacity[key]
	if !ok {
		return nil, &ConfigurationError{Key: key.String(), Reason: "no ampacity column"}
	}
	if len(col) != len(standardSizes) {
		return nil, &ConfigurationError{
			Key:    key.String(),
			Reason: fmt.Sprintf("ampacity column has %d rows, want %d", len(col), len(standardSizes)),
		}
	}
	return col, nil
}

func resistivityFor(mat Material) (float64, error) {
	rho, ok := resistivity[mat]
	if !ok || !(rho > 0) {
		return 0, &ConfigurationError{Key: string(mat), Reason: "no resistivity"}
	}
	return rho, nil
}

func kFactorFor(mat Material, ins Insulation) (float64, error) {
	k, ok := kFactor[thermalKey{mat, ins}]
	if !ok || !(k > 0) {
		return 0, &ConfigurationError{Key: fmt.Sprintf("%s/%s", mat, ins), Reason: "no short-circuit k-factor"}
	}
	return k, nil
}

// ValidateTables checks the reference data invariants: strictly increasing
// sizes, a complete non-decreasing ampacity column for every combination the
// form can submit, resistivity and k-factor for every material/insulation, and
// a temperature correction table per insulation. It is run once at start-up.
func ValidateTables() error {
	if len(standardSizes) == 0 {
		return &ConfigurationError{Reason: "empty standard size table"}
	}
	if !sort.Float64sAreSorted(standardSizes) {
		return &ConfigurationError{Reason: "standard sizes are not ascending"}
	}
	for i := 1; i < len(standardSizes); i++ {
		if standardSizes[i] <= standardSizes[i-1] {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate standard size %g mm²", standardSizes[i])}
		}
	}

	for _, mat := range materials {
		if _, err := resistivityFor(mat); err != nil {
			return err
		}
		for _, ins := range insulations {
			if _, err := kFactorFor(mat, ins); err != nil {
				return err
			}
			for _, m := range installationMethods {
				col, err := ampacityColumn(mat, ins, m)
				if err != nil {
					return err
				}
				if err := checkColumn(col); err != nil {
					return &ConfigurationError{Key: ampacityKey{mat, ins, referenceMethods[m]}.String(), Reason: err.Error()}
				}
			}
		}
	}

	for _, ins := range insulations {
		if err := checkCorrectionTable(ins); err != nil {
			return err
		}
	}
	return nil
}

func checkColumn(col []float64) error {
	rated := false
	for i, a := range col {
		if a < 0 {
			return fmt.Errorf("negative ampacity at %g mm²", standardSizes[i])
		}
		if i > 0 && a < col[i-1] {
			return fmt.Errorf("ampacity decreases at %g mm²", standardSizes[i])
		}
		rated = rated || a > 0
	}
	if !rated {
		return fmt.Errorf("no rated size")
	}
	return nil
}
