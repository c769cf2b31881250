package thermal

import (
	"math"
	"sync"
	"time"

	"aetheris/internal/models"
)

// Injection policy floors. A short window would otherwise produce an
// almost instantaneous drop.
const (
	MinDecayWindowSec  = 10.0
	MinDecayRatePerSec = 0.5
)

// DecayStore holds the injected demo heat and drains it linearly over time.
// All reads and writes apply pending decay under one mutex, so concurrent
// callers never double-count an elapsed interval.
type DecayStore struct {
	mu         sync.Mutex
	watts      float64
	ratePerSec float64
	lastUpdate time.Time
	now        func() time.Time
}

// NewDecayStore returns an empty store. A nil clock means time.Now, whose
// monotonic reading keeps elapsed-time math immune to wall-clock steps.
func NewDecayStore(now func() time.Time) *DecayStore {
	if now == nil {
		now = time.Now
	}
	return &DecayStore{now: now, lastUpdate: now()}
}

// applyDecayLocked must be called with mu held.
func (s *DecayStore) applyDecayLocked() {
	t := s.now()
	dt := t.Sub(s.lastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.watts = math.Max(0, s.watts-s.ratePerSec*dt)
	s.lastUpdate = t
}

func (s *DecayStore) snapshotLocked() models.DecayState {
	return models.DecayState{Watts: s.watts, RatePerSec: s.ratePerSec, LastUpdate: s.lastUpdate}
}

// Inject replaces the injected heat with watts and sets a rate that drains
// it over roughly windowSeconds.
func (s *DecayStore) Inject(watts, windowSeconds float64) models.DecayState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDecayLocked()
	s.watts = math.Max(0, finiteOrZero(watts))
	window := math.Max(MinDecayWindowSec, finiteOrZero(windowSeconds))
	s.ratePerSec = math.Max(MinDecayRatePerSec, s.watts/window)
	return s.snapshotLocked()
}

// Reset zeroes the injected heat. The rate is left as is.
func (s *DecayStore) Reset() models.DecayState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDecayLocked()
	s.watts = 0
	return s.snapshotLocked()
}

// Current returns the injected heat after decay.
func (s *DecayStore) Current() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDecayLocked()
	return s.watts
}

// Snapshot returns the full decay triple after decay.
func (s *DecayStore) Snapshot() models.DecayState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDecayLocked()
	return s.snapshotLocked()
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
