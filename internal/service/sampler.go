package service

import (
	"context"
	"time"

	"aetheris/internal/actuator"
	"aetheris/internal/logger"
)

// SamplerService evaluates on a fixed tick and forwards each result to the
// actuator bus.
type SamplerService struct {
	adaptation Adaptation
	actuators  actuator.Sink
	log        *logger.Logger
}

func NewSamplerService(adaptation Adaptation, actuators actuator.Sink, log *logger.Logger) *SamplerService {
	if actuators == nil {
		actuators = actuator.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SamplerService{adaptation: adaptation, actuators: actuators, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SamplerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sample(ctx)
		}
	}
}

func (s *SamplerService) sample(ctx context.Context) {
	res := s.adaptation.Evaluate(ctx)
	if err := s.actuators.Publish(ctx, actuator.CommandFrom(res)); err != nil {
		s.log.Warnw("actuator_publish_failed", "error", err, "class", res.Class)
		return
	}
	s.log.Debugw("sample_completed", "class", res.Class, "foundation_temp_c", res.State.FoundationTempC)
}
