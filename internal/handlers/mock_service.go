package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"aetheris/internal/models"
	"aetheris/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAdaptation struct {
	mu sync.Mutex

	result models.EvaluationResult
	change models.HeatChange
	decay  models.DecayState

	evaluateCalls int
	lastInject    service.InjectParams
	injectCalls   int
	resetCalls    int
	lastRefresh   bool
}

func (m *mockAdaptation) Evaluate(ctx context.Context) models.EvaluationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluateCalls++
	return m.result
}
func (m *mockAdaptation) InjectHeat(ctx context.Context, p service.InjectParams) models.HeatChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.injectCalls++
	m.lastInject = p
	return m.change
}
func (m *mockAdaptation) ResetHeat(ctx context.Context, refresh bool) models.HeatChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	m.lastRefresh = refresh
	return m.change
}
func (m *mockAdaptation) Decay() models.DecayState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decay
}
func (m *mockAdaptation) Latest(ctx context.Context) models.EvaluationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

type mockEventLog struct {
	resp      []models.EvaluationRecord
	err       error
	snapshot  models.EvaluationRecord
	snapErr   error
	lastFrom  time.Time
	lastTo    time.Time
	lastClass string
	lastLimit int
	calls     int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.EvaluationRecord, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastClass = f.Class
	m.lastLimit = f.Limit
	return m.resp, m.err
}
func (m *mockEventLog) Snapshot(ctx context.Context) (models.EvaluationRecord, error) {
	return m.snapshot, m.snapErr
}

type mockStrategy struct {
	circular     models.CircularStrategy
	circularErr  error
	plan         string
	planErr      error
	voice        service.VoiceReply
	voiceErr     error
	lastVoice    string
	dashboard    models.Dashboard
	dashboardErr error
}

func (m *mockStrategy) CircularStrategy(ctx context.Context) (models.CircularStrategy, error) {
	return m.circular, m.circularErr
}
func (m *mockStrategy) Plan72h(ctx context.Context) (string, error) {
	return m.plan, m.planErr
}
func (m *mockStrategy) VoiceIntent(ctx context.Context, text string) (service.VoiceReply, error) {
	m.lastVoice = text
	return m.voice, m.voiceErr
}
func (m *mockStrategy) Dashboard(ctx context.Context) (models.Dashboard, error) {
	return m.dashboard, m.dashboardErr
}

type mockSimulation struct {
	sim    models.Simulation
	setErr error
}

func (m *mockSimulation) GetSimulation() models.Simulation { return m.sim }
func (m *mockSimulation) SetSimulation(sim models.Simulation) (models.Simulation, error) {
	if m.setErr != nil {
		return models.Simulation{}, m.setErr
	}
	m.sim = sim
	return sim, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// do runs a request against r with an optional bearer token and JSON body.
func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
