package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aetheris/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluation(t *testing.T) {
	m := New()
	msg := "timeout"
	m.ObserveEvaluation(models.EvaluationResult{
		Class:         models.ClassCritical,
		InjectedWatts: 80,
		State:         models.LivingMachineState{FoundationTempC: 24.9},
		AdvisoryError: &msg,
	})
	m.ObserveEvaluation(models.EvaluationResult{Class: models.ClassActive})

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("CRITICAL")); got != 1 {
		t.Fatalf("critical evaluations = %v", got)
	}
	if got := testutil.ToFloat64(m.advisoryFailures); got != 1 {
		t.Fatalf("advisory failures = %v", got)
	}
	if got := testutil.ToFloat64(m.foundationTemp); got != 0 {
		t.Fatalf("gauge should track the last evaluation, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEvaluation(models.EvaluationResult{})
	m.LogDropped()
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	m.LogDropped()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/thermal/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/thermal/7", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d", w.Code)
	}
	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/thermal/:id", "418")); got != 1 {
		t.Fatalf("requests counter = %v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	for _, want := range []string{"aetheris_evaluation_log_dropped_total 1", "aetheris_http_requests_total"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
