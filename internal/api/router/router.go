// Package router wires the HTTP surface of the chat API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	httpmiddleware "github.com/wolfman30/clara-insurance-guide/internal/http/middleware"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/webchat"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// Config holds router configuration. ConversationHandler is required; the
// other handlers are mounted only when set.
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	LeadsHandler        *leads.Handler
	WebChat             *webchat.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// ChatLimiter throttles chat turns per client IP. Nil disables it.
	ChatLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg == nil || cfg.ConversationHandler == nil {
		panic("router: conversation handler is required")
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.ChatLimiter != nil {
		throttle = httpmiddleware.RateLimit(cfg.ChatLimiter, nil)
	}

	conv := cfg.ConversationHandler
	r.Get("/", conv.Root)
	r.Get("/health", conv.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", conv.Health)
		api.Route("/chat", func(c chi.Router) {
			c.Get("/start", conv.Start)
			c.With(throttle).Post("/", conv.Chat)
			c.Get("/{sessionID}/history", conv.History)
		})
		if cfg.LeadsHandler != nil {
			api.Route("/leads", func(l chi.Router) {
				l.With(throttle).Post("/", cfg.LeadsHandler.CreateLead)
				l.Get("/", cfg.LeadsHandler.ListLeads)
				l.Get("/{leadID}", cfg.LeadsHandler.GetLead)
			})
		}
	})

	if cfg.WebChat != nil {
		r.With(throttle).Get("/ws/chat", cfg.WebChat.HandleWebSocket)
	}

	return r
}
