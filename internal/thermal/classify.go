package thermal

import (
	"fmt"

	"aetheris/internal/models"
)

const (
	WarningCapacityPct = 75.0
	PassiveHeatWatts   = 30.0
)

// rule is one entry of the classification table.
type rule struct {
	class     models.OperationalClass
	matches   func(models.LivingMachineState) bool
	interpret func(models.LivingMachineState) string
}

// rules are evaluated top to bottom; the first match wins. Saturation must
// stay first so a saturated foundation is never reported as passive.
var rules = []rule{
	{
		class:   models.ClassCritical,
		matches: func(s models.LivingMachineState) bool { return s.IsSaturated },
		interpret: func(s models.LivingMachineState) string {
			return fmt.Sprintf("Foundation thermal mass saturated; smart glass driven to %d%% opacity to reject solar gain.", s.SmartGlassOpacityPct)
		},
	},
	{
		class:   models.ClassWarning,
		matches: func(s models.LivingMachineState) bool { return s.ThermalCapacityUsedPct > WarningCapacityPct },
		interpret: func(s models.LivingMachineState) string {
			return fmt.Sprintf("Thermal capacity at %.1f%%; pre-emptively tinting smart glass to %d%% opacity.", s.ThermalCapacityUsedPct, s.SmartGlassOpacityPct)
		},
	},
	{
		class:   models.ClassNominalPassive,
		matches: func(s models.LivingMachineState) bool { return s.ServerHeatOutputW < PassiveHeatWatts },
		interpret: func(models.LivingMachineState) string {
			return "Server heat is low; building is running on passive thermal mass."
		},
	},
	{
		class:   models.ClassActive,
		matches: func(models.LivingMachineState) bool { return true },
		interpret: func(models.LivingMachineState) string {
			return "Server waste heat is actively charging the foundation."
		},
	},
}

// Classify returns the operational class and its interpretation.
func Classify(s models.LivingMachineState) (models.OperationalClass, string) {
	for _, r := range rules {
		if r.matches(s) {
			return r.class, r.interpret(s)
		}
	}
	// unreachable: the last rule always matches
	return models.ClassActive, ""
}
