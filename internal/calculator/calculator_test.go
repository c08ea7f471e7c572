package calculator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

// baseRequest is the single-phase 12 kW circuit used by the UI walkthrough.
func baseRequest() models.CableSizeRequest {
	return models.CableSizeRequest{
		VoltageSystem:         "single_phase",
		Voltage:               230,
		LoadPowerKW:           12,
		PowerFactor:           0.9,
		CableLengthM:          40,
		Material:              "copper",
		Insulation:            "XLPE",
		InstallationMethod:    "conduit_surface",
		AmbientTemperatureC:   35,
		AllowableVdropPercent: f64(5),
	}
}

func TestCalculateScenarios(t *testing.T) {
	t.Run("single phase 12 kW at 35 °C selects 10 mm²", func(t *testing.T) {
		res, err := Calculate(baseRequest())
		require.NoError(t, err)

		assert.InDelta(t, 57.97, res.DerivedValues.LoadCurrentA, 0.005)
		assert.Equal(t, res.DerivedValues.LoadCurrentA, res.DerivedValues.EffectiveRequiredAmpacityA)
		assert.Nil(t, res.DerivedValues.ShortCircuitMinMM2)
		assert.Equal(t, 5.0, res.DerivedValues.AllowableVdropPercent)

		require.NotNil(t, res.FinalSelection)
		assert.Equal(t, 10.0, res.FinalSelection.SizeMM2)

		ten := res.Reasoning[4]
		assert.Equal(t, 10.0, ten.SizeMM2)
		assert.InDelta(t, 63.36, ten.DeratedAmpacityA, 0.001)
		assert.InDelta(t, 4.083, ten.VoltageDropPercent, 0.001)
		assert.True(t, ten.AmpacityOK)
		assert.True(t, ten.VdropOK)

		six := res.Reasoning[3]
		assert.False(t, six.AmpacityOK)
		assert.False(t, six.VdropOK)
		assert.Equal(t, "Selected 10 mm²: ampacity and voltage-drop limited (6 mm² fails).", res.FinalMessage)
	})

	t.Run("hotter ambient never selects a smaller size", func(t *testing.T) {
		cool, err := Calculate(baseRequest())
		require.NoError(t, err)

		req := baseRequest()
		req.AmbientTemperatureC = 55
		hot, err := Calculate(req)
		require.NoError(t, err)

		for i := range hot.Reasoning {
			assert.Less(t, hot.Reasoning[i].DeratedAmpacityA, cool.Reasoning[i].DeratedAmpacityA)
		}
		require.NotNil(t, hot.FinalSelection)
		assert.GreaterOrEqual(t, hot.FinalSelection.SizeMM2, cool.FinalSelection.SizeMM2)
		assert.Equal(t, 16.0, hot.FinalSelection.SizeMM2)
		assert.Equal(t, "Selected 16 mm²: ampacity limited (10 mm² fails).", hot.FinalMessage)
	})

	t.Run("short circuit defaults to a tenth of the source fault current", func(t *testing.T) {
		req := baseRequest()
		req.EnableShortCircuitCheck = true
		req.FaultCurrentKA = f64(6.0)
		req.DisconnectionTimeS = f64(0.4)

		in, err := Normalize(req)
		require.NoError(t, err)
		require.NotNil(t, in.ShortCircuit)
		assert.Equal(t, DefaultFaultAtLoadFraction, in.ShortCircuit.FaultAtLoadFraction)
		assert.InDelta(t, 600.0, FaultCurrentA(*in.ShortCircuit), 1e-9)

		res, err := Evaluate(in)
		require.NoError(t, err)
		require.NotNil(t, res.DerivedValues.ShortCircuitMinMM2)
		// 600 A · √0.4 s / 143
		assert.InDelta(t, 2.65, *res.DerivedValues.ShortCircuitMinMM2, 1e-9)
		assert.False(t, res.Reasoning[1].ShortCircuitOK)
		assert.True(t, res.Reasoning[2].ShortCircuitOK)
		assert.Equal(t, 10.0, res.FinalSelection.SizeMM2)
	})

	t.Run("zero power factor is rejected", func(t *testing.T) {
		req := baseRequest()
		req.PowerFactor = 0
		_, err := Calculate(req)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "power_factor", verr.Field)
	})
}

func TestCalculateBindingConstraintMessages(t *testing.T) {
	t.Run("smallest size selected", func(t *testing.T) {
		req := models.CableSizeRequest{
			VoltageSystem: "single_phase", Voltage: 230, LoadPowerKW: 1, PowerFactor: 1, CableLengthM: 10,
			Material: "copper", Insulation: "XLPE", InstallationMethod: "clipped_direct", AmbientTemperatureC: 30,
		}
		res, err := Calculate(req)
		require.NoError(t, err)
		require.NotNil(t, res.FinalSelection)
		assert.Equal(t, 1.5, res.FinalSelection.SizeMM2)
		assert.Contains(t, res.FinalMessage, "no constraint is binding")
	})

	t.Run("voltage drop limited long run", func(t *testing.T) {
		req := models.CableSizeRequest{
			VoltageSystem: "single_phase", Voltage: 230, LoadPowerKW: 2, PowerFactor: 1, CableLengthM: 200,
			Material: "copper", Insulation: "XLPE", InstallationMethod: "clipped_direct", AmbientTemperatureC: 30,
		}
		res, err := Calculate(req)
		require.NoError(t, err)
		require.NotNil(t, res.FinalSelection)
		assert.Equal(t, 10.0, res.FinalSelection.SizeMM2)
		assert.Equal(t, "Selected 10 mm²: voltage-drop limited (6 mm² fails).", res.FinalMessage)
	})

	t.Run("short circuit limited", func(t *testing.T) {
		req := models.CableSizeRequest{
			VoltageSystem: "single_phase", Voltage: 230, LoadPowerKW: 1, PowerFactor: 1, CableLengthM: 10,
			Material: "copper", Insulation: "XLPE", InstallationMethod: "clipped_direct", AmbientTemperatureC: 30,
			EnableShortCircuitCheck: true,
			FaultCurrentKA:          f64(50),
			FaultCurrentAtLoadKA:    f64(10),
			DisconnectionTimeS:      f64(1),
		}
		res, err := Calculate(req)
		require.NoError(t, err)
		require.NotNil(t, res.DerivedValues.ShortCircuitMinMM2)
		// load-side current wins over the attenuated source current
		assert.InDelta(t, 69.93, *res.DerivedValues.ShortCircuitMinMM2, 1e-9)
		require.NotNil(t, res.FinalSelection)
		assert.Equal(t, 70.0, res.FinalSelection.SizeMM2)
		assert.Equal(t, "Selected 70 mm²: short-circuit limited (50 mm² fails).", res.FinalMessage)
	})

	t.Run("table exhausted", func(t *testing.T) {
		req := models.CableSizeRequest{
			VoltageSystem: "three_phase", Voltage: 400, LoadPowerKW: 500, PowerFactor: 0.9, CableLengthM: 50,
			Material: "copper", Insulation: "XLPE", InstallationMethod: "in_air_spaced", AmbientTemperatureC: 30,
		}
		res, err := Calculate(req)
		require.NoError(t, err)
		assert.Nil(t, res.FinalSelection)
		assert.Len(t, res.Reasoning, len(standardSizes))
		assert.True(t, strings.HasPrefix(res.FinalMessage, "No standard conductor size up to 300 mm²"))
		assert.Contains(t, res.FinalMessage, "parallel conductors")
		assert.Contains(t, res.FinalMessage, "engineering review")
	})

	t.Run("ambient at the insulation rating fails every size", func(t *testing.T) {
		req := baseRequest()
		req.Insulation = "PVC"
		req.AmbientTemperatureC = 70
		res, err := Calculate(req)
		require.NoError(t, err)
		assert.Nil(t, res.FinalSelection)
		for _, step := range res.Reasoning {
			assert.False(t, step.AmpacityOK)
			assert.Zero(t, step.DeratedAmpacityA)
		}
	})

	t.Run("aluminium never selects 1.5 mm²", func(t *testing.T) {
		req := models.CableSizeRequest{
			VoltageSystem: "single_phase", Voltage: 230, LoadPowerKW: 0.5, PowerFactor: 1, CableLengthM: 5,
			Material: "aluminium", Insulation: "pvc", InstallationMethod: "clipped_direct", AmbientTemperatureC: 20,
		}
		res, err := Calculate(req)
		require.NoError(t, err)
		assert.False(t, res.Reasoning[0].AmpacityOK)
		require.NotNil(t, res.FinalSelection)
		assert.Equal(t, 2.5, res.FinalSelection.SizeMM2)
		assert.Contains(t, res.FinalMessage, "ampacity limited")
	})
}

func TestCalculateProperties(t *testing.T) {
	requests := map[string]models.CableSizeRequest{
		"base": baseRequest(),
		"three phase aluminium buried": {
			VoltageSystem: "three_phase", Voltage: 400, LoadPowerKW: 75, PowerFactor: 0.85, CableLengthM: 120,
			Material: "aluminum", Insulation: "PVC", InstallationMethod: "buried_direct", AmbientTemperatureC: 20,
			LoadType: str("motor"),
		},
		"embedded conduit with short circuit": {
			VoltageSystem: "three_phase", Voltage: 400, LoadPowerKW: 30, PowerFactor: 0.95, CableLengthM: 60,
			Material: "copper", Insulation: "PVC", InstallationMethod: "conduit_embedded", AmbientTemperatureC: 40,
			AllowableVdropPercent:   f64(3),
			EnableShortCircuitCheck: true,
			FaultCurrentKA:          f64(25),
			DisconnectionTimeS:      f64(0.2),
		},
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			res, err := Calculate(req)
			require.NoError(t, err)
			require.Len(t, res.Reasoning, len(standardSizes))

			for i := 1; i < len(res.Reasoning); i++ {
				prev, cur := res.Reasoning[i-1], res.Reasoning[i]
				assert.Greater(t, cur.SizeMM2, prev.SizeMM2)
				assert.GreaterOrEqual(t, cur.DeratedAmpacityA, prev.DeratedAmpacityA)
				assert.LessOrEqual(t, cur.VoltageDropPercent, prev.VoltageDropPercent)
				if prev.AmpacityOK {
					assert.True(t, cur.AmpacityOK, "ampacity verdict regressed at %g mm²", cur.SizeMM2)
				}
			}

			firstCompliant := -1
			for i, s := range res.Reasoning {
				if s.AmpacityOK && s.VdropOK && s.ShortCircuitOK {
					firstCompliant = i
					break
				}
			}
			if firstCompliant < 0 {
				assert.Nil(t, res.FinalSelection)
			} else {
				require.NotNil(t, res.FinalSelection)
				assert.Equal(t, res.Reasoning[firstCompliant].SizeMM2, res.FinalSelection.SizeMM2)
			}

			again, err := Calculate(req)
			require.NoError(t, err)
			a, _ := json.Marshal(res)
			b, _ := json.Marshal(again)
			assert.Equal(t, string(a), string(b))
		})
	}
}

func TestShortCircuitPassThrough(t *testing.T) {
	req := baseRequest()
	req.EnableShortCircuitCheck = false
	req.FaultCurrentKA = f64(100)
	req.FaultCurrentAtLoadKA = f64(100)
	req.DisconnectionTimeS = f64(5)

	res, err := Calculate(req)
	require.NoError(t, err)
	assert.Nil(t, res.DerivedValues.ShortCircuitMinMM2)
	for _, step := range res.Reasoning {
		assert.True(t, step.ShortCircuitOK)
	}
}

func TestLoadCurrent(t *testing.T) {
	t.Run("single phase", func(t *testing.T) {
		assert.InDelta(t, 57.971, LoadCurrent(SinglePhase, 230, 12, 0.9), 0.001)
	})

	t.Run("three phase", func(t *testing.T) {
		assert.InDelta(t, 33.962, LoadCurrent(ThreePhase, 400, 20, 0.85), 0.001)
	})

	t.Run("current scales with the inverse of power factor", func(t *testing.T) {
		unity := LoadCurrent(ThreePhase, 400, 20, 1.0)
		for _, pf := range []float64{0.9, 0.5, 0.1, 0.001} {
			assert.InDelta(t, unity/pf, LoadCurrent(ThreePhase, 400, 20, pf), 1e-6)
			assert.Greater(t, LoadCurrent(ThreePhase, 400, 20, pf), unity)
		}
	})
}

func TestVoltageDropPercent(t *testing.T) {
	// 2 · 57.971 A · (0.0225 · 40 / 10) Ω · 0.9 / 230 V
	assert.InDelta(t, 4.0832, VoltageDropPercent(SinglePhase, 0.0225, 40, 10, 57.971, 0.9, 230), 0.0001)

	single := VoltageDropPercent(SinglePhase, 0.0225, 100, 16, 30, 1, 400)
	three := VoltageDropPercent(ThreePhase, 0.0225, 100, 16, 30, 1, 400)
	assert.InDelta(t, single*0.8660254, three, 1e-6)

	cu := VoltageDropPercent(ThreePhase, resistivity[Copper], 100, 16, 30, 1, 400)
	al := VoltageDropPercent(ThreePhase, resistivity[Aluminum], 100, 16, 30, 1, 400)
	assert.InDelta(t, 1.6, al/cu, 1e-9)
}
