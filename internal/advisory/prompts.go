package advisory

import (
	"fmt"
	"strings"

	"aetheris/internal/models"
)

// CriticalPrompt asks for a single operator-facing sentence about a saturated foundation.
func CriticalPrompt(s models.LivingMachineState, interpretation string) string {
	return fmt.Sprintf(`You are Aetheris OS, the control layer of a living building that stores server waste heat in its foundation.
The foundation is saturated: %.1f°C (%.0f%% of thermal capacity), server heat output %.1f W, solar gain %.0f W, smart glass at %d%% opacity.
Status: %s
Respond with exactly one sentence advising the operator what to do next.`,
		s.FoundationTempC, s.ThermalCapacityUsedPct, s.ServerHeatOutputW, s.SolarGainW, s.SmartGlassOpacityPct, interpretation)
}

// PlanPrompt builds the 72-hour actuator plan request from a forecast.
func PlanPrompt(forecasts []models.WeatherForecast) string {
	lines := make([]string, 0, len(forecasts))
	for _, f := range forecasts {
		lines = append(lines, fmt.Sprintf("- %s: %.0fF, %s", f.Timestamp.Format("Mon 03PM"), f.Temp, f.Description))
	}
	return fmt.Sprintf(`You are Aetheris OS. Use this 5-day weather: %s
STRICT OUTPUT FORMAT for each 6-hour block:
1. OUTDOOR: [Temp] | [Condition]
2. ACTUATORS: Hydra Loop: [Int%%] | Radiant Floor: [Int%%] | Blinds: [OPEN/CLOSED]
3. REASONING: 1 sentence explaining the PCM soak or Grid offset.
RULES: BLINDS logic: Close if < 50F and overcast. Open only for PCM soak if sun is present.`,
		strings.Join(lines, "\n"))
}

// VoicePrompt answers an occupant request in two sentences.
func VoicePrompt(userText string, server models.ServerThermal) string {
	return fmt.Sprintf("User says: '%s'. As Aetheris OS, respond in 2 sentences acknowledging their need and explaining how you're using the server's %.1fW to help.",
		userText, server.EstimatedHeatOutputWatts)
}
