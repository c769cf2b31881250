package service

import (
	"context"
	"time"

	"aetheris/internal/actuator"
	"aetheris/internal/advisory"
	"aetheris/internal/config"
	"aetheris/internal/logger"
	"aetheris/internal/metrics"
	"aetheris/internal/models"
	"aetheris/internal/repository"
	"aetheris/internal/signals"
	"aetheris/internal/thermal"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Adaptation runs the control cycle and owns the injected-heat store.
type Adaptation interface {
	Evaluate(ctx context.Context) models.EvaluationResult
	InjectHeat(ctx context.Context, p InjectParams) models.HeatChange
	ResetHeat(ctx context.Context, refresh bool) models.HeatChange
	Decay() models.DecayState
	Latest(ctx context.Context) models.EvaluationResult
}

// EventLog exposes the persisted evaluation history.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.EvaluationRecord, error)
	Snapshot(ctx context.Context) (models.EvaluationRecord, error)
}

// Strategy exposes the facility planning views.
type Strategy interface {
	CircularStrategy(ctx context.Context) (models.CircularStrategy, error)
	Plan72h(ctx context.Context) (string, error)
	VoiceIntent(ctx context.Context, text string) (VoiceReply, error)
	Dashboard(ctx context.Context) (models.Dashboard, error)
}

// Simulation exposes the manual sensor override.
type Simulation interface {
	GetSimulation() models.Simulation
	SetSimulation(sim models.Simulation) (models.Simulation, error)
}

// Sampler runs the background evaluation loop.
// Stop via context cancellation for graceful shutdown.
type Sampler interface {
	Run(ctx context.Context, tick time.Duration)
}

// FacilitySignals is what the services need from the signal layer.
type FacilitySignals interface {
	Inputs(ctx context.Context) (models.ThermalInputs, error)
	ServerThermal(ctx context.Context) (models.ServerThermal, error)
	Forecast(ctx context.Context) ([]models.WeatherForecast, error)
}

type Service struct {
	Adaptation
	EventLog
	Strategy
	Simulation
	Sampler
	Authorization
}

// Deps are the collaborators NewService wires together. Nil optional
// fields get harmless defaults.
type Deps struct {
	Config     *config.Config
	Repos      *repository.Repository
	Signals    FacilitySignals
	Simulation *signals.SimulationStore
	Advisor    advisory.Client
	Sink       LogSink
	Actuators  actuator.Sink
	Metrics    *metrics.Metrics
	Log        *logger.Logger
	Clock      func() time.Time
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Advisor == nil {
		d.Advisor = advisory.Disabled{}
	}
	if d.Actuators == nil {
		d.Actuators = actuator.Nop{}
	}
	if d.Simulation == nil {
		d.Simulation = signals.NewSimulationStore()
	}

	adaptation := NewAdaptationService(AdaptationDeps{
		Decay:           thermal.NewDecayStore(d.Clock),
		Signals:         d.Signals,
		Advisor:         d.Advisor,
		AdvisoryTimeout: d.Config.Advisory.Timeout,
		Sink:            d.Sink,
		Metrics:         d.Metrics,
		Log:             d.Log,
		Clock:           d.Clock,
	})

	return &Service{
		Adaptation:    adaptation,
		EventLog:      NewEventLogService(d.Repos.Snapshots, d.Repos.Evaluations),
		Strategy:      NewStrategyService(d.Signals, d.Simulation, d.Advisor, d.Config.Advisory.PlanTimeout),
		Simulation:    NewSimulationService(d.Simulation),
		Sampler:       NewSamplerService(adaptation, d.Actuators, d.Log),
		Authorization: NewAuthService(d.Repos.Operators, d.Config.Auth.SigningKey, d.Config.Auth.TokenTTL),
	}
}
