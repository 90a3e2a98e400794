package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"truthordare/internal/engine"
	"truthordare/internal/model"
	"truthordare/internal/render"
	"truthordare/internal/service"
	"truthordare/internal/transport/callback"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	actionTimeout  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Game is what the WebSocket transport needs from the game service
type Game interface {
	Act(ctx context.Context, sessionID, actor string, act model.Action) (*model.Outcome, error)
	RecordMessage(ctx context.Context, sessionID, messageID string) error
}

// ClientFrame is an inbound frame
type ClientFrame struct {
	Type      MessageType   `json:"type"`
	Action    *model.Action `json:"action,omitempty"`
	Data      string        `json:"data,omitempty"`      // callback
	MessageID string        `json:"messageId,omitempty"` // ack
}

// Handler handles WebSocket connections
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	game    Game
	logger  *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, game Game) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		game:    game,
		logger:  hub.logger,
	}
}

// SessionWS handles GET /v1/ws/sessions/{id}
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.Validate(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := &Connection{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    claims.UserID,
		Lang:      render.ResolveTag(r),
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read failed", "session_id", conn.SessionID, "error", err)
			}
			break
		}
		h.handleFrame(conn, data)
	}
}

func (h *Handler) handleFrame(conn *Connection, data []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		conn.SendTo(MsgError, ErrorPayload{Message: "invalid frame"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	var act model.Action
	switch frame.Type {
	case MsgAction:
		if frame.Action == nil {
			conn.SendTo(MsgError, ErrorPayload{Message: "missing action"})
			return
		}
		act = *frame.Action
	case MsgCallback:
		parsed, err := callback.Parse(frame.Data, conn.UserID)
		if err != nil {
			conn.SendTo(MsgError, ErrorPayload{Message: err.Error(), Kind: engine.KindValidation.String()})
			return
		}
		act = parsed
	case MsgAck:
		if err := h.game.RecordMessage(ctx, conn.SessionID, frame.MessageID); err != nil {
			h.sendError(conn, err)
		}
		return
	default:
		conn.SendTo(MsgError, ErrorPayload{Message: "unknown frame type"})
		return
	}

	out, err := h.game.Act(ctx, conn.SessionID, conn.UserID, act)
	if err != nil {
		h.sendError(conn, err)
		return
	}
	conn.SendTo(MsgOutcome, out)
}

func (h *Handler) sendError(conn *Connection, err error) {
	conn.SendTo(MsgError, ErrorPayload{
		Message: render.Error(conn.Lang, err),
		Kind:    engine.KindOf(err).String(),
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
