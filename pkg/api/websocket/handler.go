package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/application/orchestrator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // demo service, all origins accepted
	},
}

// Frame is one message on the stream. Type is "state" for conflated UI
// snapshots, "event" for broadcast events, or "notice" for queued
// notifications.
type Frame struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Handler streams orchestrator output over WebSocket connections
type Handler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		logger:       logger,
	}
}

// HandleStream upgrades the connection and forwards the three output
// channels to the client. State frames are conflated snapshots, event
// frames are broadcast messages emitted after the client connected, and
// each notice frame is a queued notification this connection consumed:
// with several clients connected a notification reaches exactly one of
// them, and is never re-shown.
func (h *Handler) HandleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("client", c.ClientIP()))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	states := h.orchestrator.State().Subscribe(ctx)
	events := h.orchestrator.Events().Subscribe(ctx)

	// The queue channel is point-to-point: this goroutine competes with
	// other connections for each notification.
	notices := make(chan string, 1)
	go func() {
		defer close(notices)
		for {
			msg, err := h.orchestrator.Notifications().Receive(ctx)
			if err != nil {
				return
			}
			select {
			case notices <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Reader loop only notices client disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		var frame Frame
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			frame = Frame{Type: "state", Payload: state, Timestamp: time.Now()}
		case event, ok := <-events:
			if !ok {
				return
			}
			frame = Frame{Type: "event", Payload: event, Timestamp: time.Now()}
		case notice, ok := <-notices:
			if !ok {
				return
			}
			frame = Frame{Type: "notice", Payload: notice, Timestamp: time.Now()}
		}

		data, err := json.Marshal(frame)
		if err != nil {
			h.logger.Error("failed to marshal frame", zap.Error(err))
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("failed to write message, closing stream", zap.Error(err))
			return
		}
	}
}
