package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aetheris/internal/config"
	"aetheris/internal/models"
)

// ErrWeatherNotConfigured is returned when no API key is set.
var ErrWeatherNotConfigured = errors.New("weather provider not configured")

// maxForecastBlocks is five days of 3-hour blocks.
const maxForecastBlocks = 40

// OpenWeather fetches the 5-day / 3-hour forecast.
type OpenWeather struct {
	baseURL string
	apiKey  string
	lat     float64
	lon     float64
	units   string
	client  *http.Client
}

func NewOpenWeather(cfg config.WeatherConfig) *OpenWeather {
	units := cfg.Units
	if units == "" {
		units = "imperial"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenWeather{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		lat:     cfg.Lat,
		lon:     cfg.Lon,
		units:   units,
		client:  &http.Client{Timeout: timeout},
	}
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
}

// Forecast returns up to 40 forecast blocks, oldest first.
func (w *OpenWeather) Forecast(ctx context.Context) ([]models.WeatherForecast, error) {
	if w.apiKey == "" {
		return nil, ErrWeatherNotConfigured
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(w.lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(w.lon, 'f', -1, 64))
	q.Set("appid", w.apiKey)
	q.Set("units", w.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d: %s", resp.StatusCode, body)
	}

	var data owmForecast
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	n := min(len(data.List), maxForecastBlocks)
	out := make([]models.WeatherForecast, 0, n)
	for _, item := range data.List[:n] {
		desc := ""
		if len(item.Weather) > 0 {
			desc = item.Weather[0].Description
		}
		out = append(out, models.WeatherForecast{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temp:        item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
			Humidity:    item.Main.Humidity,
			Description: desc,
			WindSpeed:   item.Wind.Speed,
			Clouds:      item.Clouds.All,
		})
	}
	return out, nil
}
