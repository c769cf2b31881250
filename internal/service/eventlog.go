package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"aetheris/internal/logger"
	"aetheris/internal/metrics"
	"aetheris/internal/models"
	"aetheris/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidClass     = errors.New("invalid class: must be CRITICAL, WARNING, NOMINAL_PASSIVE or ACTIVE")
	ErrQueueFull        = errors.New("evaluation log queue full")
	ErrSinkClosed       = errors.New("evaluation log closed")
)

type EventLogService struct {
	snapshots   repository.SnapshotRepo
	evaluations repository.EvaluationRepo
}

func NewEventLogService(snapshots repository.SnapshotRepo, evaluations repository.EvaluationRepo) *EventLogService {
	return &EventLogService{snapshots: snapshots, evaluations: evaluations}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeClass trims spaces and uppercases the class filter.
func normalizeClass(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func validClass(c string) bool {
	switch models.OperationalClass(c) {
	case "", models.ClassCritical, models.ClassWarning, models.ClassNominalPassive, models.ClassActive:
		return true
	}
	return false
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Class: normalizeClass(f.Class),
		Limit: f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if !validClass(out.Class) {
		return LogFilter{}, ErrInvalidClass
	}
	if out.Limit <= 0 || out.Limit > repository.DefaultListLimit {
		out.Limit = repository.DefaultListLimit
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.EvaluationRecord, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.evaluations.List(ctx, nf.From, nf.To, nf.Class, nf.Limit)
}

// Snapshot returns the last persisted evaluation; RecordID is empty when
// nothing has been written yet.
func (s *EventLogService) Snapshot(ctx context.Context) (models.EvaluationRecord, error) {
	return s.snapshots.Load(ctx)
}

// Recorder is the asynchronous evaluation log sink. Submit enqueues without
// blocking; a single worker writes each record to the log and upserts the
// latest snapshot under its own timeout.
type Recorder struct {
	snapshots    repository.SnapshotRepo
	evaluations  repository.EvaluationRepo
	writeTimeout time.Duration
	log          *logger.Logger
	metrics      *metrics.Metrics

	queue chan models.EvaluationRecord
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(snapshots repository.SnapshotRepo, evaluations repository.EvaluationRepo, queueSize int, writeTimeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		snapshots:    snapshots,
		evaluations:  evaluations,
		writeTimeout: writeTimeout,
		log:          log,
		metrics:      m,
		queue:        make(chan models.EvaluationRecord, queueSize),
		done:         make(chan struct{}),
	}
	go r.run()
	return r
}

// Submit never blocks. It fails with ErrQueueFull or ErrSinkClosed.
func (r *Recorder) Submit(rec models.EvaluationRecord) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrSinkClosed
	}
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}
	select {
	case r.queue <- rec:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		r.write(rec)
	}
}

func (r *Recorder) write(rec models.EvaluationRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.evaluations.Append(ctx, rec); err != nil {
		r.metrics.LogDropped()
		r.log.Errorw("evaluation_log_write_failed", "record_id", rec.RecordID, "error", err)
		return
	}
	if err := r.snapshots.Save(ctx, rec); err != nil {
		r.log.Errorw("snapshot_save_failed", "record_id", rec.RecordID, "error", err)
	}
}
