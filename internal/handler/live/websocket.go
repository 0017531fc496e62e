package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatservice "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/transcript"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Inbound message types.
const (
	TypeInput  = "input"
	TypeSubmit = "submit"
)

// Outbound message types.
const (
	TypeConnected  = "connected"
	TypeTranscript = "transcript"
	TypeScroll     = "scroll"
	TypeError      = "error"
)

// WebSocketHandler drives a transcript mount over a websocket.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(chatSvc *chatservice.Service, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterSessionRoutes registers the websocket route below /sessions/{sessionID}.
func (h *WebSocketHandler) RegisterSessionRoutes(s chi.Router) {
	s.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// TextMessage carries the input buffer for input and submit frames.
type TextMessage struct {
	Text *string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla connections allow one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	controller, err := h.chatSvc.Controller(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()
	c := &conn{ws: ws}

	h.logger.Debug("websocket connected", zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, c)

	// A slow socket never blocks Submit; the writer only sees the newest change.
	box := transcript.NewLatestBox()
	unsubscribe := controller.Subscribe(box)
	defer unsubscribe()

	h.send(c, sessionID, TypeConnected, map[string]any{
		"messages": controller.Messages(),
		"input":    controller.Input(),
	})
	h.send(c, sessionID, TypeScroll, transcript.EndOfTranscript())

	go h.writeLoop(ctx, c, sessionID, box)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, "session mismatch")
			continue
		}

		// Touch the mount so an open socket keeps it from being evicted.
		if _, err := h.chatSvc.Controller(ctx, sessionID); err != nil {
			h.sendError(c, err.Error())
			return
		}
		h.handleMessage(c, controller, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(c *conn, controller *transcript.Controller, msg *inboundMessage) {
	var text TextMessage
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(c, "invalid "+msg.Type+" payload")
			return
		}
	}

	switch msg.Type {
	case TypeInput:
		if text.Text == nil {
			h.sendError(c, "text is required")
			return
		}
		controller.UpdateInput(*text.Text)
	case TypeSubmit:
		if text.Text != nil {
			controller.SubmitText(*text.Text)
		} else {
			controller.Submit()
		}
	default:
		h.sendError(c, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) send(c *conn, sessionID, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.String("type", kind), zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(c *conn, message string) {
	h.send(c, "", TypeError, map[string]string{"message": message})
}

// writeLoop pushes each change followed by its scroll request.
func (h *WebSocketHandler) writeLoop(ctx context.Context, c *conn, sessionID string, box *transcript.LatestBox) {
	scroll := transcript.ScrollObserver(func(req transcript.ScrollRequest) error {
		return c.writeJSON(outgoingMessage{Type: TypeScroll, SessionID: sessionID, Data: req, Timestamp: time.Now().Unix()})
	}, h.logger)

	for {
		select {
		case <-ctx.Done():
			return
		case <-box.Ready():
			change, ok := box.Take()
			if !ok {
				continue
			}
			h.send(c, sessionID, TypeTranscript, change)
			scroll.TranscriptChanged(change)
		}
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
