package signals

import (
	"errors"
	"math"
	"sync"

	"aetheris/internal/models"
)

var ErrInvalidSimulation = errors.New("invalid simulation: cpu, cloud and cistern percentages must be within 0..100")

// Live-sensor fallbacks used by the dashboard.
const (
	DefaultCPUPercent   = 20.0
	DefaultOutdoorTempF = 57.0
	DefaultCisternPct   = 85.0
)

// SimulationStore holds the operator's manual sensor override.
type SimulationStore struct {
	mu  sync.RWMutex
	sim models.Simulation
}

// NewSimulationStore starts disabled with the dashboard slider defaults.
func NewSimulationStore() *SimulationStore {
	return &SimulationStore{sim: models.Simulation{
		CPUPercent:   50,
		OutdoorTempF: DefaultOutdoorTempF,
		CloudPercent: 0,
		CisternPct:   80,
	}}
}

func (s *SimulationStore) Get() models.Simulation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sim
}

func (s *SimulationStore) Set(sim models.Simulation) (models.Simulation, error) {
	for _, v := range []float64{sim.CPUPercent, sim.CloudPercent, sim.CisternPct} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return models.Simulation{}, ErrInvalidSimulation
		}
	}
	if math.IsNaN(sim.OutdoorTempF) || math.IsInf(sim.OutdoorTempF, 0) {
		return models.Simulation{}, ErrInvalidSimulation
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim = sim
	return s.sim, nil
}
