package conversation

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// Handler wires HTTP requests to the chat service.
type Handler struct {
	service *Service
	logger  *logging.Logger
	now     func() time.Time
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// HistoryResponse is returned by GET /api/chat/{sessionID}/history.
type HistoryResponse struct {
	SessionID string       `json:"session_id"`
	Messages  chat.History `json:"messages"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"message":    "Health Insurance Chatbot API",
		"disclaimer": Disclaimer,
	})
}

// Start handles GET /api/chat/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.StartSession(r.Context()))
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ProcessMessage(r.Context(), TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
		ClientIP:  ClientIP(r),
	})
	if errors.Is(err, ErrEmptyMessage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Chat error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/chat/{sessionID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.service.GetHistory(r.Context(), sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load history", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = chat.History{}
	}
	h.writeJSON(w, http.StatusOK, HistoryResponse{SessionID: sessionID, Messages: messages})
}

// Health handles GET /health and GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
