package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"aetheris/internal/logger"
	"aetheris/internal/models"
	"aetheris/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // clients only send control frames
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// streamFrame is the payload of an "evaluation" message.
type streamFrame struct {
	Evaluation models.EvaluationResult `json:"evaluation"`
	Decay      models.DecayState       `json:"decay"`
}

// The dashboard is served from another origin.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// evaluationStream pushes frames to one WebSocket client.
type evaluationStream struct {
	conn       *websocket.Conn
	adaptation service.Adaptation
	interval   time.Duration
	log        *logger.Logger
}

// @Summary      Evaluation stream
// @Description  WebSocket upgrade. Sends the latest evaluation and live decay state every interval (?interval=2s or ?interval_ms=2000, max 10s). Streaming never triggers an evaluation of its own after the first.
// @Tags         system
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	log := h.log
	if log == nil {
		log = logger.Nop()
	}
	s := &evaluationStream{conn: conn, adaptation: h.services.Adaptation, interval: interval, log: log}
	s.run(c.Request.Context())
}

// run writes frames and pings until the client goes away or ctx ends.
func (s *evaluationStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go s.drain(closed)

	frames := time.NewTicker(s.interval)
	pings := time.NewTicker(pingPeriod)
	defer frames.Stop()
	defer pings.Stop()

	if err := s.sendFrame(ctx); err != nil {
		s.log.Infow("ws_write_failed_initial", "err", err)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-pings.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-frames.C:
			if err := s.sendFrame(ctx); err != nil {
				s.log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// drain reads until the connection closes so pongs and close frames are handled.
func (s *evaluationStream) drain(closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

func (s *evaluationStream) sendFrame(ctx context.Context) error {
	frame := streamFrame{
		Evaluation: s.adaptation.Latest(ctx),
		Decay:      s.adaptation.Decay(),
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(wsEnvelope{Type: "evaluation", Data: frame})
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; out-of-range or
// unparsable values fall back to one second.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}
