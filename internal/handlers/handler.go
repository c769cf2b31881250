package handlers

import (
	_ "aetheris/docs" // swagger docs registration
	"aetheris/internal/logger"
	"aetheris/internal/metrics"
	"aetheris/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	log         *logger.Logger
	metrics     *metrics.Metrics
	authEnabled bool
}

// Option customises a Handler.
type Option func(*Handler)

// WithMetrics records request metrics and serves /metrics from m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithAuth toggles bearer-token checks on /api/v1. Enabled by default.
func WithAuth(enabled bool) Option {
	return func(h *Handler) { h.authEnabled = enabled }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, authEnabled: true}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Evaluation stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	if h.authEnabled {
		api.Use(h.operatorIDMiddleware)
	}
	{
		h.registerThermalRoutes(api)
		h.registerLogRoutes(api)
		h.registerSignalRoutes(api)
		h.registerStrategyRoutes(api)
	}
}

func (h *Handler) registerThermalRoutes(api *gin.RouterGroup) {
	thermal := api.Group("/thermal")
	{
		thermal.GET("/status", h.getStatus)
		thermal.GET("/decay", h.getDecay)
		thermal.GET("/snapshot", h.getSnapshot)
		// Body example: {"watts":80,"window_seconds":45}
		thermal.POST("/inject", h.injectHeat)
		thermal.POST("/reset", h.resetHeat)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}

func (h *Handler) registerSignalRoutes(api *gin.RouterGroup) {
	sig := api.Group("/signals")
	{
		sig.GET("/simulation", h.getSimulation)
		sig.PUT("/simulation", h.putSimulation)
	}
}

func (h *Handler) registerStrategyRoutes(api *gin.RouterGroup) {
	st := api.Group("/strategy")
	{
		st.GET("/circular", h.getCircularStrategy)
		st.GET("/plan", h.getPlan)
		st.POST("/voice", h.postVoiceIntent)
		st.GET("/dashboard", h.getDashboard)
	}
}
