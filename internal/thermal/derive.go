package thermal

import (
	"math"

	"aetheris/internal/models"
)

// Linear model constants. These are demo figures, not physics.
const (
	ServerTDPWatts      = 65.0   // heat at 100% load
	BaseFoundationTempC = 18.5   // foundation temperature with no heat input
	SaturationTempC     = 24.0   // upper bound of the operating band
	TempPerWattC        = 0.08   // °C of foundation rise per watt
	OpacityRampStartC   = 22.0   // smart glass starts tinting here
	PeakSolarGainWatts  = 1000.0 // clear-sky solar gain
)

// Derive maps the current inputs and injected heat to a LivingMachineState.
// Inputs are clamped, never rejected.
func Derive(in models.ThermalInputs, injectedWatts float64) models.LivingMachineState {
	load := clamp(finiteOrZero(in.LoadFraction), 0, 1)
	injected := math.Max(0, finiteOrZero(injectedWatts))

	heat := load*ServerTDPWatts + injected
	temp := BaseFoundationTempC + heat*TempPerWattC

	capacity := clamp((temp-BaseFoundationTempC)/(SaturationTempC-BaseFoundationTempC)*100, 0, 100)

	solar := 0.0
	if in.HasOutdoor() {
		solar = PeakSolarGainWatts * (1 - clamp(finiteOrZero(in.CloudFraction), 0, 1))
	}

	return models.LivingMachineState{
		FoundationTempC:        temp,
		ThermalCapacityUsedPct: capacity,
		IsSaturated:            temp >= SaturationTempC,
		SmartGlassOpacityPct:   SmartGlassOpacity(temp),
		ServerHeatOutputW:      heat,
		SolarGainW:             solar,
	}
}

// SmartGlassOpacity ramps 0..100 between 22 °C and 24 °C of foundation
// temperature. Halves round to even.
func SmartGlassOpacity(foundationTempC float64) int {
	switch {
	case foundationTempC >= SaturationTempC:
		return 100
	case foundationTempC <= OpacityRampStartC:
		return 0
	}
	pct := (foundationTempC - OpacityRampStartC) / (SaturationTempC - OpacityRampStartC) * 100
	return int(math.RoundToEven(pct))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
