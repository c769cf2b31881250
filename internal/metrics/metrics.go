package metrics

import (
	"net/http"
	"strconv"
	"time"

	"aetheris/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aetheris"

// Metrics owns its registry so several instances can coexist in tests.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	evaluationsTotal  *prometheus.CounterVec
	advisoryFailures  prometheus.Counter
	logDropped        prometheus.Counter
	injectedHeat      prometheus.Gauge
	foundationTemp    prometheus.Gauge
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed adaptation cycles by operational class.",
		}, []string{"class"}),
		advisoryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_failures_total",
			Help:      "Critical-state advisories that failed or timed out.",
		}),
		logDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_log_dropped_total",
			Help:      "Evaluation records that could not be queued or written.",
		}),
		injectedHeat: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "injected_heat_watts",
			Help:      "Injected heat after decay at the last evaluation.",
		}),
		foundationTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "foundation_temp_celsius",
			Help:      "Derived foundation temperature at the last evaluation.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.evaluationsTotal,
		m.advisoryFailures,
		m.logDropped,
		m.injectedHeat,
		m.foundationTemp,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveEvaluation records one finished adaptation cycle.
func (m *Metrics) ObserveEvaluation(r models.EvaluationResult) {
	if m == nil {
		return
	}
	m.evaluationsTotal.WithLabelValues(string(r.Class)).Inc()
	m.injectedHeat.Set(r.InjectedWatts)
	m.foundationTemp.Set(r.State.FoundationTempC)
	if r.AdvisoryError != nil {
		m.advisoryFailures.Inc()
	}
}

// LogDropped counts an evaluation record that never reached storage.
func (m *Metrics) LogDropped() {
	if m == nil {
		return
	}
	m.logDropped.Inc()
}
