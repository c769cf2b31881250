package service

import (
	"aetheris/internal/models"
	"aetheris/internal/signals"
)

type SimulationService struct {
	store *signals.SimulationStore
}

func NewSimulationService(store *signals.SimulationStore) *SimulationService {
	return &SimulationService{store: store}
}

func (s *SimulationService) GetSimulation() models.Simulation {
	return s.store.Get()
}

func (s *SimulationService) SetSimulation(sim models.Simulation) (models.Simulation, error) {
	return s.store.Set(sim)
}
