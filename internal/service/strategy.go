package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aetheris/internal/advisory"
	"aetheris/internal/models"
	"aetheris/internal/signals"
	"aetheris/internal/thermal"
)

var (
	// ErrAdvisor wraps failures of the advisory provider on planning calls.
	ErrAdvisor     = errors.New("advisory provider failed")
	ErrEmptyIntent = errors.New("user_text is required")
)

const defaultPlanTimeout = 60 * time.Second

var errEmptyAdvisory = errors.New("advisory: empty response")

// completeText treats a nil or blank reply as a provider failure.
func completeText(ctx context.Context, c advisory.Client, prompt string, opts ...advisory.Option) (string, error) {
	resp, err := c.Complete(ctx, prompt, opts...)
	if err == nil && (resp == nil || resp.Content == "") {
		err = errEmptyAdvisory
	}
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

type StrategyService struct {
	signals     FacilitySignals
	sim         *signals.SimulationStore
	advisor     advisory.Client
	planTimeout time.Duration
}

func NewStrategyService(sig FacilitySignals, sim *signals.SimulationStore, advisor advisory.Client, planTimeout time.Duration) *StrategyService {
	if sim == nil {
		sim = signals.NewSimulationStore()
	}
	if advisor == nil {
		advisor = advisory.Disabled{}
	}
	if planTimeout <= 0 {
		planTimeout = defaultPlanTimeout
	}
	return &StrategyService{signals: sig, sim: sim, advisor: advisor, planTimeout: planTimeout}
}

// CircularStrategy pairs the server heat source with the next forecast
// block. Weather is nil when the forecast is unavailable.
func (s *StrategyService) CircularStrategy(ctx context.Context) (models.CircularStrategy, error) {
	server, err := s.signals.ServerThermal(ctx)
	if err != nil {
		return models.CircularStrategy{}, fmt.Errorf("server thermal: %w", err)
	}
	out := models.CircularStrategy{ServerState: server}
	if list, err := s.signals.Forecast(ctx); err == nil && len(list) > 0 {
		first := list[0]
		out.Weather = &first
	}
	return out, nil
}

// Plan72h asks the advisor for a deterministic actuator plan over the forecast.
func (s *StrategyService) Plan72h(ctx context.Context) (string, error) {
	list, err := s.signals.Forecast(ctx)
	if err != nil {
		return "", fmt.Errorf("forecast: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.planTimeout)
	defer cancel()

	plan, err := completeText(ctx, s.advisor, advisory.PlanPrompt(list), advisory.Deterministic())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdvisor, err)
	}
	return plan, nil
}

// VoiceIntent answers an occupant in two sentences, referencing the heat
// currently available from the server.
func (s *StrategyService) VoiceIntent(ctx context.Context, text string) (VoiceReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return VoiceReply{}, ErrEmptyIntent
	}
	server, err := s.signals.ServerThermal(ctx)
	if err != nil {
		return VoiceReply{}, fmt.Errorf("server thermal: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.planTimeout)
	defer cancel()

	answer, err := completeText(ctx, s.advisor, advisory.VoicePrompt(text, server))
	if err != nil {
		return VoiceReply{}, fmt.Errorf("%w: %v", ErrAdvisor, err)
	}
	lower := strings.ToLower(text)
	return VoiceReply{
		Response:     answer,
		RedirectHeat: strings.Contains(lower, "shiver") || strings.Contains(lower, "cold"),
	}, nil
}

// Dashboard summarises impact and actuator state from the simulation when
// enabled, otherwise from live readings with sensor baselines as fallback.
func (s *StrategyService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	d := models.Dashboard{}
	if sim := s.sim.Get(); sim.Enabled {
		d.Simulated = true
		d.CPUPercent = sim.CPUPercent
		d.OutdoorTempF = sim.OutdoorTempF
		d.CisternPct = sim.CisternPct
	} else {
		d.CPUPercent = signals.DefaultCPUPercent
		d.OutdoorTempF = signals.DefaultOutdoorTempF
		d.CisternPct = signals.DefaultCisternPct
		if server, err := s.signals.ServerThermal(ctx); err == nil {
			d.CPUPercent = server.CPUUsagePercent
		}
		if list, err := s.signals.Forecast(ctx); err == nil && len(list) > 0 {
			d.OutdoorTempF = list[0].Temp
		}
	}
	d.Impact = thermal.Impact(d.CPUPercent, d.CisternPct)
	d.Actuators = thermal.Actuators(d.CPUPercent, d.OutdoorTempF)
	return d, nil
}
