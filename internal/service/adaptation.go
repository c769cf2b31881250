package service

import (
	"context"
	"sync"
	"time"

	"aetheris/internal/advisory"
	"aetheris/internal/logger"
	"aetheris/internal/metrics"
	"aetheris/internal/models"
	"aetheris/internal/thermal"
)

// AdvisoryUnavailable replaces the advisory text when the collaborator fails.
const AdvisoryUnavailable = "Advisory unavailable."

const defaultAdvisoryTimeout = 5 * time.Second

// SignalSource supplies evaluation inputs. A non-nil error marks the
// returned inputs as degraded, not unusable.
type SignalSource interface {
	Inputs(ctx context.Context) (models.ThermalInputs, error)
}

// LogSink accepts evaluation records without blocking.
type LogSink interface {
	Submit(rec models.EvaluationRecord) error
}

type AdaptationDeps struct {
	Decay           *thermal.DecayStore
	Signals         SignalSource
	Advisor         advisory.Client
	AdvisoryTimeout time.Duration
	Sink            LogSink
	Metrics         *metrics.Metrics
	Log             *logger.Logger
	Clock           func() time.Time
}

// AdaptationService is the adaptation controller. Every operation returns a
// usable result; collaborator failures are reported on the result.
type AdaptationService struct {
	decay           *thermal.DecayStore
	signals         SignalSource
	advisor         advisory.Client
	advisoryTimeout time.Duration
	sink            LogSink
	metrics         *metrics.Metrics
	log             *logger.Logger
	now             func() time.Time

	mu     sync.RWMutex
	latest *models.EvaluationResult
}

func NewAdaptationService(d AdaptationDeps) *AdaptationService {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Decay == nil {
		d.Decay = thermal.NewDecayStore(d.Clock)
	}
	if d.Advisor == nil {
		d.Advisor = advisory.Disabled{}
	}
	if d.AdvisoryTimeout <= 0 {
		d.AdvisoryTimeout = defaultAdvisoryTimeout
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &AdaptationService{
		decay:           d.Decay,
		signals:         d.Signals,
		advisor:         d.Advisor,
		advisoryTimeout: d.AdvisoryTimeout,
		sink:            d.Sink,
		metrics:         d.Metrics,
		log:             d.Log,
		now:             d.Clock,
	}
}

// Evaluate runs one cycle: inputs, derive, classify, advisory on CRITICAL,
// then hand the record to the log sink.
func (s *AdaptationService) Evaluate(ctx context.Context) models.EvaluationResult {
	res := models.EvaluationResult{EvaluatedAt: s.now().UTC()}

	if s.signals != nil {
		in, err := s.signals.Inputs(ctx)
		res.Inputs = in
		if err != nil {
			res.SignalError = errString(err)
			s.log.Warnw("signal_inputs_degraded", "error", err)
		}
	}

	res.InjectedWatts = s.decay.Current()
	res.State = thermal.Derive(res.Inputs, res.InjectedWatts)
	res.Class, res.Interpretation = thermal.Classify(res.State)

	if res.Class == models.ClassCritical {
		s.requestAdvisory(ctx, &res)
	}

	s.emit(&res)
	s.storeLatest(res)
	s.metrics.ObserveEvaluation(res)
	return res
}

// storeLatest keeps the newest evaluation; a slow cycle finishing late
// does not replace a fresher one.
func (s *AdaptationService) storeLatest(res models.EvaluationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && res.EvaluatedAt.Before(s.latest.EvaluatedAt) {
		return
	}
	s.latest = &res
}

// requestAdvisory fills Advisory, or the fallback text and AdvisoryError.
func (s *AdaptationService) requestAdvisory(ctx context.Context, res *models.EvaluationResult) {
	actx, cancel := context.WithTimeout(ctx, s.advisoryTimeout)
	defer cancel()

	text, err := completeText(actx, s.advisor, advisory.CriticalPrompt(res.State, res.Interpretation))
	if err != nil {
		fallback := AdvisoryUnavailable
		res.Advisory = &fallback
		res.AdvisoryError = errString(err)
		s.log.Warnw("advisory_failed", "error", err, "class", res.Class)
		return
	}
	res.Advisory = &text
}

// emit submits the record without waiting for storage.
func (s *AdaptationService) emit(res *models.EvaluationResult) {
	if s.sink == nil {
		return
	}
	rec := models.EvaluationRecord{
		OccurredAt:     res.EvaluatedAt,
		Class:          res.Class,
		Interpretation: res.Interpretation,
		State:          res.State,
		InjectedWatts:  res.InjectedWatts,
		Metadata:       recordMetadata(*res),
	}
	if res.Advisory != nil {
		rec.Advisory = *res.Advisory
	}
	if err := s.sink.Submit(rec); err != nil {
		res.LogError = errString(err)
		s.metrics.LogDropped()
		s.log.Warnw("evaluation_log_submit_failed", "error", err)
	}
}

func recordMetadata(res models.EvaluationResult) map[string]any {
	meta := map[string]any{"inputs": res.Inputs}
	if res.SignalError != nil {
		meta["signal_error"] = *res.SignalError
	}
	if res.AdvisoryError != nil {
		meta["advisory_error"] = *res.AdvisoryError
	}
	return meta
}

// InjectHeat replaces the injected heat. With Refresh set an evaluation is
// attached to the response.
func (s *AdaptationService) InjectHeat(ctx context.Context, p InjectParams) models.HeatChange {
	st := s.decay.Inject(p.Watts, p.WindowSeconds)
	s.log.Infow("heat_injected", "watts", st.Watts, "rate_per_sec", st.RatePerSec)
	return s.afterChange(ctx, st, p.Refresh)
}

// ResetHeat zeroes the injected heat.
func (s *AdaptationService) ResetHeat(ctx context.Context, refresh bool) models.HeatChange {
	st := s.decay.Reset()
	s.log.Infow("heat_reset")
	return s.afterChange(ctx, st, refresh)
}

func (s *AdaptationService) afterChange(ctx context.Context, st models.DecayState, refresh bool) models.HeatChange {
	out := models.HeatChange{Decay: st}
	if refresh {
		res := s.Evaluate(ctx)
		out.Evaluation = &res
	}
	return out
}

func (s *AdaptationService) Decay() models.DecayState {
	return s.decay.Snapshot()
}

// Latest returns the most recent evaluation, running one if none exists yet.
func (s *AdaptationService) Latest(ctx context.Context) models.EvaluationResult {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return *latest
	}
	return s.Evaluate(ctx)
}

func errString(err error) *string {
	msg := err.Error()
	return &msg
}
