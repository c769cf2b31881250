package service

import "time"

// InjectParams is a demo heat injection request.
type InjectParams struct {
	Watts         float64 // negative values are treated as 0
	WindowSeconds float64 // approximate drain time; floored at thermal.MinDecayWindowSec
	Refresh       bool    // run an evaluation after the change
}

// LogFilter supports history filtering by time range and operational class.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Class string    // "", "CRITICAL", "WARNING", "NOMINAL_PASSIVE", "ACTIVE"
	Limit int       // <= 0 selects repository.DefaultListLimit
}

// VoiceReply is the assistant's answer to an occupant request.
type VoiceReply struct {
	Response     string `json:"response"`
	RedirectHeat bool   `json:"redirect_heat"` // occupant reported being cold
}
