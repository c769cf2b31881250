package signals

import (
	"context"
	"errors"
	"fmt"

	"aetheris/internal/models"
	"aetheris/internal/thermal"
)

// CPUSource reports CPU usage in percent.
type CPUSource interface {
	Percent(ctx context.Context) (float64, error)
}

// Provider turns host telemetry, weather and the simulation override into
// evaluation inputs.
type Provider struct {
	cpu     CPUSource
	weather ForecastSource
	sim     *SimulationStore
}

func NewProvider(cpu CPUSource, weather ForecastSource, sim *SimulationStore) *Provider {
	if sim == nil {
		sim = NewSimulationStore()
	}
	return &Provider{cpu: cpu, weather: weather, sim: sim}
}

func (p *Provider) Simulation() *SimulationStore { return p.sim }

// Inputs always returns usable inputs. A non-nil error lists the sources
// that failed; their contribution is dropped (load 0, no outdoor reading).
func (p *Provider) Inputs(ctx context.Context) (models.ThermalInputs, error) {
	if sim := p.sim.Get(); sim.Enabled {
		outdoor := sim.OutdoorTempF
		return models.ThermalInputs{
			LoadFraction:  sim.CPUPercent / 100,
			OutdoorTempF:  &outdoor,
			CloudFraction: sim.CloudPercent / 100,
		}, nil
	}

	var in models.ThermalInputs
	var errs []error

	if p.cpu != nil {
		pct, err := p.cpu.Percent(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			in.LoadFraction = pct / 100
		}
	}

	if p.weather != nil {
		f, err := p.currentForecast(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			temp := f.Temp
			in.OutdoorTempF = &temp
			in.CloudFraction = float64(f.Clouds) / 100
		}
	}

	return in, errors.Join(errs...)
}

// ServerThermal reports the compute node as a heat source.
func (p *Provider) ServerThermal(ctx context.Context) (models.ServerThermal, error) {
	if sim := p.sim.Get(); sim.Enabled {
		return thermal.ServerThermalFromCPU(sim.CPUPercent), nil
	}
	if p.cpu == nil {
		return models.ServerThermal{}, errors.New("cpu source not configured")
	}
	pct, err := p.cpu.Percent(ctx)
	if err != nil {
		return models.ServerThermal{}, err
	}
	return thermal.ServerThermalFromCPU(pct), nil
}

// Forecast returns the live forecast; the simulation does not override it.
func (p *Provider) Forecast(ctx context.Context) ([]models.WeatherForecast, error) {
	if p.weather == nil {
		return nil, ErrWeatherNotConfigured
	}
	return p.weather.Forecast(ctx)
}

func (p *Provider) currentForecast(ctx context.Context) (models.WeatherForecast, error) {
	list, err := p.weather.Forecast(ctx)
	if err != nil {
		return models.WeatherForecast{}, err
	}
	if len(list) == 0 {
		return models.WeatherForecast{}, fmt.Errorf("weather api: empty forecast")
	}
	return list[0], nil
}
