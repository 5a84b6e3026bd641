package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clara-insurance-guide/internal/calendar"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	httpmiddleware "github.com/wolfman30/clara-insurance-guide/internal/http/middleware"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/observability/metrics"
	"github.com/wolfman30/clara-insurance-guide/internal/scheduling"
	"github.com/wolfman30/clara-insurance-guide/internal/webchat"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

type cannedLLM struct{}

func (cannedLLM) Complete(context.Context, conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{Text: "Medicare Part A covers hospital stays."}, nil
}

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.New("error")
	now := func() time.Time { return time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC) }
	leadRepo := leads.NewInMemoryRepository()
	reg := prometheus.NewRegistry()

	svc, err := conversation.NewService(conversation.ServiceDeps{
		Store:      conversation.NewMemorySessionStore(),
		Leads:      leadRepo,
		LLM:        cannedLLM{},
		Inferencer: scheduling.NewInferencer(calendar.New(calendar.DefaultFederalHolidays()), scheduling.WithNow(now)),
		Metrics:    metrics.NewChatMetrics(reg),
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	cfg := &Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		LeadsHandler:        leads.NewHandler(leadRepo, svc, logger),
		WebChat:             webchat.NewHandler(svc, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  []string{"*"},
		ChatLimiter:         limiter,
	}

	return New(cfg)
}

func serve(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/api/health"} {
		rr := serve(router, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusOK, rr.Code)
		}

		var resp map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode health response: %v", err)
		}
		if resp["status"] != "healthy" {
			t.Errorf("expected status 'healthy', got %q", resp["status"])
		}
	}
}

func TestRouterRoot(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := serve(router, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Health Insurance Chatbot API") {
		t.Errorf("unexpected root body: %s", rr.Body.String())
	}
}

func TestRouterChatRoundTrip(t *testing.T) {
	router := newTestRouter(t, nil)

	body, _ := json.Marshal(conversation.ChatRequest{Message: "What does Medicare Part A cover?"})
	rr := serve(router, http.MethodPost, "/api/chat", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var turn conversation.TurnResult
	if err := json.NewDecoder(rr.Body).Decode(&turn); err != nil {
		t.Fatalf("failed to decode chat response: %v", err)
	}
	if turn.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	if turn.Response != "Medicare Part A covers hospital stays." {
		t.Errorf("unexpected response %q", turn.Response)
	}

	rr = serve(router, http.MethodGet, "/api/chat/"+turn.SessionID+"/history", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected history status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "What does Medicare Part A cover?") {
		t.Errorf("history missing user message: %s", rr.Body.String())
	}

	rr = serve(router, http.MethodGet, "/api/chat/missing/history", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rr.Code)
	}
}

func TestRouterChatStart(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := serve(router, http.MethodGet, "/api/chat/start", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var start conversation.StartResult
	if err := json.NewDecoder(rr.Body).Decode(&start); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}
	if start.SessionID == "" || start.Message == "" || start.Disclaimer == "" {
		t.Errorf("incomplete start response: %+v", start)
	}
}

func TestRouterLeadsEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := leads.CreateLeadRequest{
		FirstName:         "Router",
		LastName:          "Test",
		Email:             "router@example.com",
		Phone:             "5551234567",
		InsuranceInterest: "Medicare",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	rr := serve(router, http.MethodPost, "/api/leads", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var created leads.CreateLeadResponse
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	rr = serve(router, http.MethodGet, "/api/leads/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = serve(router, http.MethodGet, "/api/leads", nil)
	var list leads.ListLeadsResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if list.Count != 1 || list.Leads[0].Email != payload.Email {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	body, _ := json.Marshal(conversation.ChatRequest{Message: "hello"})
	serve(router, http.MethodPost, "/api/chat", body)

	rr := serve(router, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "clara_chat_turns_total") {
		t.Errorf("expected chat turn metric in output")
	}
}

func TestRouterChatRateLimited(t *testing.T) {
	limiter := httpmiddleware.NewRateLimiter(0.01, 1)
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, limiter)

	body, _ := json.Marshal(conversation.ChatRequest{Message: "hello"})
	if rr := serve(router, http.MethodPost, "/api/chat", body); rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}
	if rr := serve(router, http.MethodPost, "/api/chat", body); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	// Reads are not throttled.
	if rr := serve(router, http.MethodGet, "/api/health", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected health to pass, got %d", rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://widget.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://widget.example" {
		t.Errorf("unexpected allow origin %q", got)
	}
}
