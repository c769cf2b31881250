package models

// CircularStrategy pairs the server heat source with the nearest forecast block.
type CircularStrategy struct {
	ServerState ServerThermal    `json:"server_state"`
	Weather     *WeatherForecast `json:"weather"`
}

// ImpactMetrics are the sustainability figures shown on the dashboard.
type ImpactMetrics struct {
	EnergyScavengedKWh  float64 `json:"energy_scavenged_kwh"`
	CO2AvoidedKg        float64 `json:"co2_avoided_kg"`
	SustainabilityScore int     `json:"sustainability_score"`
}

// ActuatorStatus is one row of the live actuator table.
type ActuatorStatus struct {
	System    string `json:"system"`
	Intensity string `json:"intensity"`
	Source    string `json:"source"`
}

// Dashboard is the command-center summary.
type Dashboard struct {
	Simulated    bool             `json:"simulated"`
	CPUPercent   float64          `json:"cpu_percent"`
	OutdoorTempF float64          `json:"outdoor_temp_f"`
	CisternPct   float64          `json:"cistern_pct"`
	Impact       ImpactMetrics    `json:"impact"`
	Actuators    []ActuatorStatus `json:"actuators"`
}
