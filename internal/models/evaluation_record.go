package models

import "time"

// EvaluationRecord is a single evaluation log entry.
type EvaluationRecord struct {
	RecordID       string             `json:"record_id"`
	OccurredAt     time.Time          `json:"occurred_at"`
	Class          OperationalClass   `json:"class"`
	Interpretation string             `json:"interpretation"`
	State          LivingMachineState `json:"state"`
	InjectedWatts  float64            `json:"injected_watts"`
	Advisory       string             `json:"advisory,omitempty"`
	Metadata       any                `json:"metadata,omitempty"` // degradations, inputs
}
