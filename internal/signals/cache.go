package signals

import (
	"context"
	"sync"
	"time"

	"aetheris/internal/models"
)

// ForecastSource is anything that can produce a forecast.
type ForecastSource interface {
	Forecast(ctx context.Context) ([]models.WeatherForecast, error)
}

// ForecastCache serves the last good forecast for ttl. Failed fetches are
// not cached.
type ForecastCache struct {
	src ForecastSource
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	data      []models.WeatherForecast
	fetchedAt time.Time
}

func NewForecastCache(src ForecastSource, ttl time.Duration, now func() time.Time) *ForecastCache {
	if now == nil {
		now = time.Now
	}
	return &ForecastCache{src: src, ttl: ttl, now: now}
}

func (c *ForecastCache) Forecast(ctx context.Context) ([]models.WeatherForecast, error) {
	c.mu.Lock()
	if c.data != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		out := c.data
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	data, err := c.src.Forecast(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data = data
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return data, nil
}
