package handlers

import (
	"errors"
	"net/http"

	"aetheris/internal/models"
	"aetheris/internal/service"
	"aetheris/internal/signals"

	"github.com/gin-gonic/gin"
)

// VoiceIntentRequest is an occupant or operator request in plain language.
type VoiceIntentRequest struct {
	UserText string `json:"user_text" binding:"required" example:"I'm cold in the east wing"`
}

// @Summary      Manual simulation
// @Tags         signals
// @Produce      json
// @Success      200  {object}  models.Simulation
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/signals/simulation [get]
// @Security     BearerAuth
func (h *Handler) getSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Simulation.GetSimulation())
}

// @Summary      Set manual simulation
// @Description  When enabled, CPU load, outdoor temperature, cloud cover and cistern level come from this override instead of live sensors.
// @Tags         signals
// @Accept       json
// @Produce      json
// @Param        body  body      models.Simulation  true  "Override values"
// @Success      200   {object}  models.Simulation
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/signals/simulation [put]
// @Security     BearerAuth
func (h *Handler) putSimulation(c *gin.Context) {
	var req models.Simulation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	sim, err := h.services.Simulation.SetSimulation(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.log != nil {
		h.log.Infow("simulation_updated", "enabled", sim.Enabled, "cpu_percent", sim.CPUPercent, "outdoor_temp_f", sim.OutdoorTempF)
	}
	c.JSON(http.StatusOK, sim)
}

// @Summary      Circular heat strategy
// @Description  Server heat source paired with the next forecast block; weather is null when the forecast is unavailable.
// @Tags         strategy
// @Produce      json
// @Success      200  {object}  models.CircularStrategy
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/strategy/circular [get]
// @Security     BearerAuth
func (h *Handler) getCircularStrategy(c *gin.Context) {
	st, err := h.services.Strategy.CircularStrategy(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to read server thermal state", "circular_strategy_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      72-hour thermal plan
// @Tags         strategy
// @Produce      json
// @Success      200  {object}  map[string]string  "plan"
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/strategy/plan [get]
// @Security     BearerAuth
func (h *Handler) getPlan(c *gin.Context) {
	plan, err := h.services.Strategy.Plan72h(c.Request.Context())
	if err != nil {
		h.upstreamError(c, "plan_generation_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// @Summary      Voice intent
// @Tags         strategy
// @Accept       json
// @Produce      json
// @Param        body  body      VoiceIntentRequest  true  "Request text"
// @Success      200   {object}  service.VoiceReply
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/strategy/voice [post]
// @Security     BearerAuth
func (h *Handler) postVoiceIntent(c *gin.Context) {
	var req VoiceIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	reply, err := h.services.Strategy.VoiceIntent(c.Request.Context(), req.UserText)
	if err != nil {
		h.upstreamError(c, "voice_intent_failed", err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// @Summary      Command-center dashboard
// @Tags         strategy
// @Produce      json
// @Success      200  {object}  models.Dashboard
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/strategy/dashboard [get]
// @Security     BearerAuth
func (h *Handler) getDashboard(c *gin.Context) {
	d, err := h.services.Strategy.Dashboard(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to build dashboard", "dashboard_failed", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// upstreamError maps strategy failures to HTTP codes: advisor errors are
// 502 and a missing weather key is 503.
func (h *Handler) upstreamError(c *gin.Context, logKey string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyIntent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAdvisor):
		h.logAndJSONError(c, http.StatusBadGateway, err.Error(), logKey, err)
	case errors.Is(err, signals.ErrWeatherNotConfigured):
		h.logAndJSONError(c, http.StatusServiceUnavailable, err.Error(), logKey, err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, err.Error(), logKey, err)
	}
}
