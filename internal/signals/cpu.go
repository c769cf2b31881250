package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CPUSampler reads host CPU utilisation.
type CPUSampler struct {
	interval time.Duration
	percent  func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
}

// NewCPUSampler measures CPU percent over interval. Non-positive intervals
// fall back to one second.
func NewCPUSampler(interval time.Duration) *CPUSampler {
	if interval <= 0 {
		interval = time.Second
	}
	return &CPUSampler{interval: interval, percent: cpu.PercentWithContext}
}

// Percent blocks for the sample interval and returns total CPU usage in 0..100.
func (s *CPUSampler) Percent(ctx context.Context) (float64, error) {
	vals, err := s.percent(ctx, s.interval, false)
	if err != nil {
		return 0, fmt.Errorf("sample cpu: %w", err)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("sample cpu: no readings")
	}
	return vals[0], nil
}
