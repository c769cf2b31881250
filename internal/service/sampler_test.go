package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aetheris/internal/models"
)

type fakeActuators struct {
	mu   sync.Mutex
	cmds []models.ActuatorCommand
	err  error
}

func (f *fakeActuators) Publish(_ context.Context, cmd models.ActuatorCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmd)
	return f.err
}

func (f *fakeActuators) Close() {}

func (f *fakeActuators) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cmds)
}

func TestSampler_PublishesEachTick(t *testing.T) {
	adaptation := newTestAdaptation(newTestClock(), fakeSignals{in: models.ThermalInputs{LoadFraction: 1}}, nil, &fakeSink{})
	acts := &fakeActuators{}
	s := NewSamplerService(adaptation, acts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	waitFor(t, func() bool { return acts.count() >= 2 })
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop on cancel")
	}

	acts.mu.Lock()
	cmd := acts.cmds[0]
	acts.mu.Unlock()
	// 65 W at full load: 18.5 + 5.2 = 23.7 °C, 85% opacity
	if cmd.Class != models.ClassWarning || cmd.SmartGlassOpacityPct != 85 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestSampler_PublishErrorDoesNotStopLoop(t *testing.T) {
	adaptation := newTestAdaptation(newTestClock(), fakeSignals{}, nil, &fakeSink{})
	acts := &fakeActuators{err: errors.New("broker down")}
	s := NewSamplerService(adaptation, acts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx, 5*time.Millisecond)

	waitFor(t, func() bool { return acts.count() >= 3 })
}
