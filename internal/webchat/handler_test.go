package webchat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

type fakeService struct {
	mu      sync.Mutex
	stored  map[string]chat.History
	turns   []conversation.TurnRequest
	turnErr error
	loadErr error
}

func newFakeService() *fakeService {
	return &fakeService{stored: make(map[string]chat.History)}
}

func (f *fakeService) StartSession(context.Context) conversation.StartResult {
	return conversation.StartResult{SessionID: "fresh-session", Message: "Hi, I'm Clara.", Disclaimer: conversation.Disclaimer}
}

func (f *fakeService) ProcessMessage(_ context.Context, req conversation.TurnRequest) (*conversation.TurnResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, req)
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return &conversation.TurnResult{
		SessionID:    req.SessionID,
		Response:     "echo: " + req.Message,
		SuggestAgent: true,
		Topics:       []string{"Medicare"},
		Step:         "idle",
	}, nil
}

func (f *fakeService) GetHistory(_ context.Context, id string) (chat.History, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	h, ok := f.stored[id]
	if !ok {
		return nil, conversation.ErrSessionNotFound
	}
	return h, nil
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat" + query
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func newServer(t *testing.T, svc ChatService) (*Handler, *httptest.Server) {
	t.Helper()
	h := NewHandler(svc, logging.New("error"))
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return h, srv
}

func TestWebSocket_NewSessionGreetsAndReplies(t *testing.T) {
	svc := newFakeService()
	_, srv := newServer(t, svc)
	conn := dial(t, srv, "")

	session := receive(t, conn)
	assert.Equal(t, "session", session.Type)
	assert.Equal(t, "fresh-session", session.SessionID)
	assert.Equal(t, conversation.Disclaimer, session.Disclaimer)

	greeting := receive(t, conn)
	assert.Equal(t, "message", greeting.Type)
	assert.Equal(t, "Hi, I'm Clara.", greeting.Text)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "What is Medigap?"}))

	assert.Equal(t, "typing", receive(t, conn).Type)
	reply := receive(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "echo: What is Medigap?", reply.Text)
	assert.True(t, reply.SuggestAgent)
	assert.Equal(t, []string{"Medicare"}, reply.Topics)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.turns, 1)
	assert.Equal(t, "fresh-session", svc.turns[0].SessionID)
	assert.NotEmpty(t, svc.turns[0].ClientIP)
}

func TestWebSocket_ResumeSendsHistory(t *testing.T) {
	svc := newFakeService()
	svc.stored["sess-1"] = chat.History{chat.Assistant("Hello"), chat.User("Hi")}
	_, srv := newServer(t, svc)
	conn := dial(t, srv, "?session=sess-1")

	assert.Equal(t, "sess-1", receive(t, conn).SessionID)
	history := receive(t, conn)
	assert.Equal(t, "history", history.Type)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "Hi", history.Messages[1].Text)
}

func TestWebSocket_UnknownSessionKeepsRequestedID(t *testing.T) {
	svc := newFakeService()
	_, srv := newServer(t, svc)
	conn := dial(t, srv, "?session=client-chosen")

	session := receive(t, conn)
	assert.Equal(t, "client-chosen", session.SessionID)
	assert.Equal(t, "message", receive(t, conn).Type)
}

func TestWebSocket_PingAndBlankMessages(t *testing.T) {
	svc := newFakeService()
	_, srv := newServer(t, svc)
	conn := dial(t, srv, "")
	receive(t, conn)
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "   "}))
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	assert.Equal(t, "pong", receive(t, conn).Type)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.turns)
}

func TestWebSocket_TurnErrorSendsErrorFrame(t *testing.T) {
	svc := newFakeService()
	svc.turnErr = errors.New("llm down")
	_, srv := newServer(t, svc)
	conn := dial(t, srv, "")
	receive(t, conn)
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hello"}))
	assert.Equal(t, "typing", receive(t, conn).Type)
	errFrame := receive(t, conn)
	assert.Equal(t, "error", errFrame.Type)
	assert.Contains(t, errFrame.Text, "something went wrong")
}

func TestNewHandler_NilServicePanics(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil, nil) })
}
