package models

import "time"

// WeatherForecast is one 3-hour block from the forecast provider.
type WeatherForecast struct {
	Timestamp   time.Time `json:"timestamp"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	WindSpeed   float64   `json:"wind_speed"`
	Clouds      int       `json:"clouds"` // percent
}

// ServerThermal describes the compute node as a heat source.
type ServerThermal struct {
	CPUUsagePercent          float64 `json:"cpu_usage_percent"`
	EstimatedHeatOutputWatts float64 `json:"estimated_heat_output_watts"`
	ThermalState             string  `json:"thermal_state"` // high | medium | low
}

// Simulation overrides live sensors with operator-chosen values.
type Simulation struct {
	Enabled      bool    `json:"enabled"`
	CPUPercent   float64 `json:"cpu_percent"`
	OutdoorTempF float64 `json:"outdoor_temp_f"`
	CloudPercent float64 `json:"cloud_percent"`
	CisternPct   float64 `json:"cistern_pct"`
}

// ActuatorCommand is published to the building's actuator bus.
type ActuatorCommand struct {
	IssuedAt             time.Time        `json:"issued_at"`
	Class                OperationalClass `json:"class"`
	SmartGlassOpacityPct int              `json:"smart_glass_opacity_pct"`
	FoundationTempC      float64          `json:"foundation_temp_c"`
	ServerHeatOutputW    float64          `json:"server_heat_output_w"`
}
