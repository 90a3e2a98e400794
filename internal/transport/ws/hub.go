package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"truthordare/internal/logging"
	"truthordare/internal/model"
	"truthordare/internal/render"
	"truthordare/internal/transport/callback"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgNotification MessageType = "notification"
	MsgOutcome      MessageType = "outcome"
	MsgError        MessageType = "error"
)

// Client message types
const (
	MsgAction   MessageType = "action"
	MsgCallback MessageType = "callback"
	MsgAck      MessageType = "ack" // Client reports the id of a displayed prompt message
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NotificationPayload is a rendered notification
type NotificationPayload struct {
	model.Notification
	Text    string            `json:"text"`
	Buttons []callback.Button `json:"buttons,omitempty"`
}

// ErrorPayload reports a rejected inbound frame
type ErrorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// Hub fans notifications out to the connections of each session
type Hub struct {
	sessions map[string]map[string]*Connection // sessionID -> connID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	stopOnce   sync.Once

	logger *slog.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	ID        string
	SessionID string
	UserID    string
	Lang      language.Tag
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a batch of notifications for one session
type BroadcastMessage struct {
	SessionID string
	Notes     []model.Notification
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	h := &Hub{
		sessions:   make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, conns := range h.sessions {
				for _, conn := range conns {
					close(conn.Send)
				}
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[string]*Connection)
			}
			h.sessions[conn.SessionID][conn.ID] = conn
			h.mu.Unlock()
			h.logger.Info("websocket connected", "session_id", conn.SessionID, "user_id", conn.UserID, "conn_id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.sessions[conn.SessionID]; ok {
				if existing, ok := conns[conn.ID]; ok && existing == conn {
					delete(conns, conn.ID)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.sessions, conn.SessionID)
					}
					h.logger.Info("websocket disconnected", "session_id", conn.SessionID, "user_id", conn.UserID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, conn := range h.sessions[msg.SessionID] {
				for _, n := range msg.Notes {
					if n.Private && n.PlayerID != conn.UserID {
						continue
					}
					data, err := encodeNotification(conn.Lang, n)
					if err != nil {
						continue
					}
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Notify queues notifications for delivery (implements engine.Notifier).
// Delivery is best effort: a full queue drops the batch.
func (h *Hub) Notify(ctx context.Context, sessionID string, notes []model.Notification) {
	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Notes: notes}:
	case <-h.done:
	case <-time.After(time.Second):
		h.logger.Warn("notification queue full, dropping", "session_id", sessionID, "count", len(notes))
	}
}

// Connections returns the number of open connections of a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.done) })
}

// SendTo writes a message to a single connection
func (c *Connection) SendTo(msgType MessageType, payload interface{}) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		return
	}
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	// The hub closes Send under the write lock once the connection is gone
	if conns, ok := c.Hub.sessions[c.SessionID]; !ok || conns[c.ID] != c {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func encodeNotification(tag language.Tag, n model.Notification) ([]byte, error) {
	return encodeMessage(MsgNotification, NotificationPayload{
		Notification: n,
		Text:         render.Message(tag, n),
		Buttons:      callback.Buttons(n),
	})
}

func encodeMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}
