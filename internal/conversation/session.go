package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

// ErrSessionNotFound is returned by a SessionStore for unknown ids.
var ErrSessionNotFound = errors.New("conversation: session not found")

// Session is the persisted state of one chat. Step is a cached tag for logs
// and reporting; the scheduling flow always re-derives it from Messages.
type Session struct {
	ID        string          `json:"session_id" dynamodbav:"sessionId"`
	Messages  chat.History    `json:"messages" dynamodbav:"messages"`
	Topics    []extract.Topic `json:"topics" dynamodbav:"topics"`
	LeadID    string          `json:"lead_id,omitempty" dynamodbav:"leadId,omitempty"`
	IPAddress string          `json:"ip_address,omitempty" dynamodbav:"ipAddress,omitempty"`
	Step      string          `json:"step,omitempty" dynamodbav:"step,omitempty"`
	CreatedAt time.Time       `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt time.Time       `json:"updated_at" dynamodbav:"updatedAt"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = s.Messages.Clone()
	out.Topics = append([]extract.Topic(nil), s.Topics...)
	return &out
}

// SessionStore persists chat sessions by opaque id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

// MemorySessionStore keeps sessions in process. Used in tests and local runs.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.clone(), nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("conversation: session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.clone()
	return nil
}
