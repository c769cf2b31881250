package models

import "time"

// OperationalClass is the alerting class derived from a LivingMachineState.
type OperationalClass string

const (
	ClassCritical       OperationalClass = "CRITICAL"
	ClassWarning        OperationalClass = "WARNING"
	ClassNominalPassive OperationalClass = "NOMINAL_PASSIVE"
	ClassActive         OperationalClass = "ACTIVE"
)

// ThermalInputs are the signals consumed by one evaluation.
type ThermalInputs struct {
	LoadFraction  float64  `json:"load_fraction"`            // 0..1 of compute capacity busy
	OutdoorTempF  *float64 `json:"outdoor_temp_f,omitempty"` // nil when weather is unavailable
	CloudFraction float64  `json:"cloud_fraction"`           // 0..1
}

// HasOutdoor reports whether an outdoor reading is present.
func (in ThermalInputs) HasOutdoor() bool { return in.OutdoorTempF != nil }

// LivingMachineState is the derived thermal snapshot.
type LivingMachineState struct {
	FoundationTempC        float64 `json:"foundation_temp_c"`
	ThermalCapacityUsedPct float64 `json:"thermal_capacity_used_pct"`
	IsSaturated            bool    `json:"is_saturated"`
	SmartGlassOpacityPct   int     `json:"smart_glass_opacity_pct"`
	ServerHeatOutputW      float64 `json:"server_heat_output_w"`
	SolarGainW             float64 `json:"solar_gain_w"`
}

// DecayState is a point-in-time copy of the injected-heat store.
type DecayState struct {
	Watts      float64   `json:"watts"`
	RatePerSec float64   `json:"rate_per_sec"`
	LastUpdate time.Time `json:"last_update"`
}

// EvaluationResult is what one adaptation cycle hands back to its caller.
// The *Error fields report degraded collaborators; a nil field means the
// collaborator succeeded (or was not needed).
type EvaluationResult struct {
	EvaluatedAt    time.Time          `json:"evaluated_at"`
	Inputs         ThermalInputs      `json:"inputs"`
	InjectedWatts  float64            `json:"injected_watts"`
	State          LivingMachineState `json:"state"`
	Class          OperationalClass   `json:"class"`
	Interpretation string             `json:"interpretation"`
	Advisory       *string            `json:"advisory,omitempty"`
	AdvisoryError  *string            `json:"advisory_error,omitempty"`
	SignalError    *string            `json:"signal_error,omitempty"`
	LogError       *string            `json:"log_error,omitempty"`
}

// AdvisoryAvailable reports whether Advisory carries generated text rather
// than the fallback placeholder.
func (r EvaluationResult) AdvisoryAvailable() bool {
	return r.Advisory != nil && r.AdvisoryError == nil
}

// HeatChange is returned by inject/reset; Evaluation is set only on refresh.
type HeatChange struct {
	Decay      DecayState        `json:"decay"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
}
