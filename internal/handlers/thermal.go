package handlers

import (
	"net/http"
	"strconv"

	"aetheris/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errGetSnapshot     = "failed to load snapshot"
	errInvalidBodyPref = "invalid body: "

	// defaultInjectWindowSec applies when window_seconds is omitted.
	defaultInjectWindowSec = 60.0
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// refreshRequested reads ?refresh=true|1.
func refreshRequested(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	return err == nil && v
}

// InjectHeatRequest is the payload for a demo heat injection.
type InjectHeatRequest struct {
	// Injected heat in watts; negative values are treated as 0
	Watts *float64 `json:"watts" binding:"required" example:"80"`
	// Approximate drain time in seconds; floored at 10, defaults to 60
	WindowSeconds *float64 `json:"window_seconds,omitempty" example:"45"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Evaluate now
// @Description  Runs one adaptation cycle. Degraded collaborators are reported in signal_error, advisory_error and log_error.
// @Tags         thermal
// @Produce      json
// @Success      200  {object}  models.EvaluationResult
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/thermal/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Adaptation.Evaluate(c.Request.Context()))
}

// @Summary      Injected heat
// @Tags         thermal
// @Produce      json
// @Success      200  {object}  models.DecayState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/thermal/decay [get]
// @Security     BearerAuth
func (h *Handler) getDecay(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Adaptation.Decay())
}

// @Summary      Last persisted evaluation
// @Tags         thermal
// @Produce      json
// @Success      200  {object}  models.EvaluationRecord
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/thermal/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	rec, err := h.services.EventLog.Snapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "snapshot_load_failed", err)
		return
	}
	if rec.RecordID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no evaluation recorded yet"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Inject heat
// @Description  Replaces the injected heat and sets a linear drain rate of max(0.5, watts/max(10, window_seconds)) W/s.
// @Tags         thermal
// @Accept       json
// @Produce      json
// @Param        body     body   InjectHeatRequest  true   "Injection payload"
// @Param        refresh  query  bool               false  "Run an evaluation afterwards"
// @Success      200   {object}  models.HeatChange
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/thermal/inject [post]
// @Security     BearerAuth
func (h *Handler) injectHeat(c *gin.Context) {
	var req InjectHeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	window := defaultInjectWindowSec
	if req.WindowSeconds != nil {
		window = *req.WindowSeconds
	}
	change := h.services.Adaptation.InjectHeat(c.Request.Context(), service.InjectParams{
		Watts:         *req.Watts,
		WindowSeconds: window,
		Refresh:       refreshRequested(c),
	})
	c.JSON(http.StatusOK, change)
}

// @Summary      Reset injected heat
// @Tags         thermal
// @Produce      json
// @Param        refresh  query  bool  false  "Run an evaluation afterwards"
// @Success      200  {object}  models.HeatChange
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/thermal/reset [post]
// @Security     BearerAuth
func (h *Handler) resetHeat(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Adaptation.ResetHeat(c.Request.Context(), refreshRequested(c)))
}
