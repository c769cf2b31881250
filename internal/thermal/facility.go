package thermal

import (
	"fmt"
	"math"

	"aetheris/internal/models"
)

// Facility figures used by the command-center dashboard.
const (
	kWhPerFullLoad    = 0.065 // 65 W over one hour
	co2KgPerKWh       = 0.4   // grid displacement factor
	comfortSetpointF  = 70.0
	solarThermalMinF  = 60.0
	blindsCloseBelowF = 50.0
)

// ServerThermalFromCPU estimates the node's heat output from CPU percent.
func ServerThermalFromCPU(cpuPercent float64) models.ServerThermal {
	cpu := clamp(finiteOrZero(cpuPercent), 0, 100)
	state := "low"
	switch {
	case cpu > 70:
		state = "high"
	case cpu > 40:
		state = "medium"
	}
	return models.ServerThermal{
		CPUUsagePercent:          cpu,
		EstimatedHeatOutputWatts: cpu / 100 * ServerTDPWatts,
		ThermalState:             state,
	}
}

// Impact computes scavenged energy, avoided CO2 and the sustainability score.
func Impact(cpuPercent, cisternPct float64) models.ImpactMetrics {
	kwh := cpuPercent / 100 * kWhPerFullLoad
	return models.ImpactMetrics{
		EnergyScavengedKWh:  kwh,
		CO2AvoidedKg:        kwh * co2KgPerKWh,
		SustainabilityScore: int(cpuPercent*0.8 + cisternPct*0.2),
	}
}

// Actuators returns the live actuator table for the given load and outdoor temperature.
func Actuators(cpuPercent, outdoorTempF float64) []models.ActuatorStatus {
	hydraSource := "N/A"
	if cpuPercent > 30 {
		hydraSource = "Server Waste Heat"
	}
	solar := "ON"
	if outdoorTempF < solarThermalMinF {
		solar = "OFF"
	}
	blinds := "OPEN"
	if outdoorTempF < blindsCloseBelowF {
		blinds = "CLOSED"
	}
	floorSource := "Grid"
	if cpuPercent > 40 {
		floorSource = "Hybrid (Server + Grid)"
	}
	heatDemand := comfortSetpointF - outdoorTempF

	return []models.ActuatorStatus{
		{System: "Hydra Loop", Intensity: fmt.Sprintf("%.0f%%", math.Min(100, cpuPercent+10)), Source: hydraSource},
		{System: "Solar Thermal", Intensity: solar, Source: "Passive"},
		{System: "Window Blinds", Intensity: blinds, Source: "Passive"},
		{System: "Radiant Floor", Intensity: fmt.Sprintf("%.0f%%", math.Max(0, heatDemand*2)), Source: floorSource},
	}
}
