// Package webchat serves the chat pipeline over a WebSocket.
package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// ChatService is the part of conversation.Service the socket needs.
type ChatService interface {
	StartSession(ctx context.Context) conversation.StartResult
	ProcessMessage(ctx context.Context, req conversation.TurnRequest) (*conversation.TurnResult, error)
	GetHistory(ctx context.Context, sessionID string) (chat.History, error)
}

// Handler manages web chat connections and messages.
type Handler struct {
	service ChatService
	logger  *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type         string           `json:"type"` // "session", "history", "typing", "message", "pong", "error"
	Text         string           `json:"text,omitempty"`
	Role         string           `json:"role,omitempty"`
	SessionID    string           `json:"session_id,omitempty"`
	Disclaimer   string           `json:"disclaimer,omitempty"`
	SuggestAgent bool             `json:"suggest_agent,omitempty"`
	LeadCaptured bool             `json:"lead_captured,omitempty"`
	Topics       []string         `json:"topics,omitempty"`
	Step         string           `json:"step,omitempty"`
	Timestamp    string           `json:"timestamp,omitempty"`
	Messages     []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history frames.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewHandler creates a web chat handler.
func NewHandler(service ChatService, logger *logging.Logger) *Handler {
	if service == nil {
		panic("webchat: chat service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		logger:   logger,
		sessions: make(map[string]*wsConn),
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := conversation.ClientIP(r)
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r, clientIP)
	}).ServeHTTP(w, r)
}

// ActiveSessions reports how many sockets are open.
func (h *Handler) ActiveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request, clientIP string) {
	ctx := r.Context()
	wsc := &wsConn{conn: conn}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" || !h.resume(ctx, wsc, sessionID) {
		start := h.service.StartSession(ctx)
		if sessionID == "" {
			sessionID = start.SessionID
		}
		_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID, Disclaimer: start.Disclaimer})
		_ = wsc.send(OutboundMessage{Type: "message", Role: chat.RoleAssistant, Text: start.Message, Timestamp: stamp()})
	}

	h.register(sessionID, wsc)
	defer h.unregister(sessionID, wsc)

	log := h.logger.ForSession(sessionID)
	log.Info("webchat: connection opened", "client_ip", clientIP)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			log.Debug("webchat: connection closed", "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = wsc.send(OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processMessage(ctx, wsc, sessionID, clientIP, msg.Text)
	}
}

// resume replays stored history. It reports false when the session is new.
func (h *Handler) resume(ctx context.Context, wsc *wsConn, sessionID string) bool {
	history, err := h.service.GetHistory(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, conversation.ErrSessionNotFound) {
			h.logger.Warn("webchat: failed to load history", "error", err, "session_id", sessionID)
		}
		return false
	}
	msgs := make([]HistoryMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, HistoryMessage{Role: m.Role, Text: m.Content})
	}
	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID, Disclaimer: conversation.Disclaimer})
	_ = wsc.send(OutboundMessage{Type: "history", SessionID: sessionID, Messages: msgs})
	return true
}

func (h *Handler) processMessage(ctx context.Context, wsc *wsConn, sessionID, clientIP, text string) {
	_ = wsc.send(OutboundMessage{Type: "typing"})

	result, err := h.service.ProcessMessage(ctx, conversation.TurnRequest{
		SessionID: sessionID,
		Message:   text,
		ClientIP:  clientIP,
	})
	if err != nil {
		h.logger.Error("webchat: turn failed", "error", err, "session_id", sessionID)
		_ = wsc.send(OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	_ = wsc.send(OutboundMessage{
		Type:         "message",
		Role:         chat.RoleAssistant,
		Text:         result.Response,
		SessionID:    result.SessionID,
		SuggestAgent: result.SuggestAgent,
		LeadCaptured: result.LeadCaptured,
		Topics:       result.Topics,
		Step:         result.Step,
		Timestamp:    stamp(),
	})
}

// register keeps one socket per session; a newer tab replaces the older one.
func (h *Handler) register(sessionID string, wsc *wsConn) {
	h.mu.Lock()
	prev := h.sessions[sessionID]
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	if prev != nil {
		_ = prev.conn.Close()
	}
}

func (h *Handler) unregister(sessionID string, wsc *wsConn) {
	h.mu.Lock()
	if h.sessions[sessionID] == wsc {
		delete(h.sessions, sessionID)
	}
	h.mu.Unlock()
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
