package conversation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/observability/metrics"
	"github.com/wolfman30/clara-insurance-guide/internal/scheduling"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

const defaultChatMaxTokens int32 = 300

// ErrEmptyMessage is returned when a turn carries no text.
var ErrEmptyMessage = errors.New("conversation: message is required")

// LeadCaptureHook runs after a lead is auto-captured and the session saved.
// Hooks are best effort and must not block for long.
type LeadCaptureHook func(ctx context.Context, lead *leads.Lead, session *Session)

// TurnRequest is one user message.
type TurnRequest struct {
	SessionID string
	Message   string
	ClientIP  string
}

// TurnResult is the response envelope of one chat turn.
type TurnResult struct {
	SessionID    string               `json:"session_id"`
	Response     string               `json:"response"`
	SuggestAgent bool                 `json:"suggest_agent"`
	Topics       []string             `json:"topics"`
	LeadCaptured bool                 `json:"lead_captured"`
	ContactInfo  *extract.ContactInfo `json:"contact_info,omitempty"`
	Step         string               `json:"step"`
}

// StartResult is returned when a visitor opens the chat.
type StartResult struct {
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
	Disclaimer string `json:"disclaimer"`
}

// ServiceDeps are the collaborators of Service. Store, LLM and Inferencer
// are required.
type ServiceDeps struct {
	Store      SessionStore
	Leads      leads.Repository
	LLM        LLMClient
	Inferencer *scheduling.Inferencer
	Contacts   *extract.ContactExtractor
	Topics     *extract.TopicDetector
	Metrics    *metrics.ChatMetrics
	Logger     *logging.Logger
}

// ServiceOption tunes a Service.
type ServiceOption func(*Service)

func WithSystemPrompt(prompt string) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(prompt) != "" {
			s.systemPrompt = prompt
		}
	}
}

func WithMaxTokens(chatTokens, summaryTokens int32) ServiceOption {
	return func(s *Service) {
		if chatTokens > 0 {
			s.maxTokens = chatTokens
		}
		s.summarizer = NewSummarizer(s.llm, summaryTokens)
	}
}

func WithAgentPolicy(p AgentPolicy) ServiceOption {
	return func(s *Service) { s.policy = p }
}

func WithLeadCaptureHooks(hooks ...LeadCaptureHook) ServiceOption {
	return func(s *Service) { s.hooks = append(s.hooks, hooks...) }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// Service runs chat turns: the local scheduling flow first, the LLM
// otherwise, then topic tagging, contact extraction and lead capture.
type Service struct {
	store        SessionStore
	leads        leads.Repository
	llm          LLMClient
	inferencer   *scheduling.Inferencer
	contacts     *extract.ContactExtractor
	topics       *extract.TopicDetector
	policy       AgentPolicy
	summarizer   *Summarizer
	metrics      *metrics.ChatMetrics
	hooks        []LeadCaptureHook
	logger       *logging.Logger
	tracer       trace.Tracer
	systemPrompt string
	maxTokens    int32
	now          func() time.Time
	newID        func() string
	pick         func(n int) int
	locks        *sessionLocks
}

func NewService(deps ServiceDeps, opts ...ServiceOption) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("conversation: session store is required")
	}
	if deps.LLM == nil {
		return nil, errors.New("conversation: llm client is required")
	}
	if deps.Inferencer == nil {
		return nil, errors.New("conversation: scheduling inferencer is required")
	}
	if deps.Contacts == nil {
		deps.Contacts = extract.NewDefaultContactExtractor()
	}
	if deps.Topics == nil {
		deps.Topics = extract.NewTopicDetector(extract.DefaultTopicTable())
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}

	s := &Service{
		store:        deps.Store,
		leads:        deps.Leads,
		llm:          deps.LLM,
		inferencer:   deps.Inferencer,
		contacts:     deps.Contacts,
		topics:       deps.Topics,
		policy:       DefaultAgentPolicy(),
		summarizer:   NewSummarizer(deps.LLM, defaultSummaryMaxTokens),
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		tracer:       otel.Tracer("clara.internal.conversation.service"),
		systemPrompt: defaultSystemPrompt,
		maxTokens:    defaultChatMaxTokens,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.New().String() },
		pick:         rand.IntN,
		locks:        newSessionLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartSession hands out a fresh session id and a greeting. Nothing is
// stored until the first message arrives.
func (s *Service) StartSession(_ context.Context) StartResult {
	return StartResult{
		SessionID:  s.newID(),
		Message:    ConversationStarters[s.pick(len(ConversationStarters))],
		Disclaimer: Disclaimer,
	}
}

// ProcessMessage runs one chat turn. An LLM failure is the only error that
// is not a storage error; lead capture failures are logged and swallowed.
func (s *Service) ProcessMessage(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.process_message")
	defer span.End()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = s.newID()
	}
	span.SetAttributes(attribute.String("session.id", sessionID))
	logger := s.logger.ForSession(sessionID)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.loadOrCreate(ctx, sessionID, req.ClientIP)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	history := session.Messages.Clone()
	history = append(history, chat.User(message))

	reply, handler, err := s.reply(ctx, history)
	if err != nil {
		span.RecordError(err)
		logger.Error("llm completion failed", "error", err)
		return nil, err
	}
	history = append(history, chat.Assistant(reply))
	span.SetAttributes(attribute.String("chat.handler", handler))
	s.metrics.ObserveTurn(handler)

	topics := extract.MergeTopics(session.Topics, s.topics.Detect(message)...)
	suggest := s.policy.ShouldSuggest(history, topics)
	if suggest {
		s.metrics.ObserveAgentSuggested()
	}
	contact := s.contacts.Extract(history)
	step := s.inferencer.DetectStep(history)
	s.metrics.ObserveStep(step.String())

	var captured *leads.Lead
	if leads.IsReady(contact) && session.LeadID == "" && s.leads != nil {
		lead, err := s.leads.Create(ctx, leads.AutoCaptureRequest(sessionID, contact, topics))
		if err != nil {
			logger.Warn("auto lead capture failed", "error", err)
		} else {
			captured = lead
			session.LeadID = lead.ID
			s.metrics.ObserveLeadCaptured(lead.Source)
			logger.Info("lead auto-captured", "lead_id", lead.ID, "interest", lead.InsuranceInterest)
		}
	}

	session.Messages = history
	session.Topics = topics
	session.Step = step.String()
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: save session: %w", err)
	}

	if captured != nil {
		for _, hook := range s.hooks {
			hook(ctx, captured, session)
		}
	}

	result := &TurnResult{
		SessionID:    sessionID,
		Response:     reply,
		SuggestAgent: suggest,
		Topics:       extract.TopicStrings(topics),
		LeadCaptured: captured != nil,
		Step:         step.String(),
	}
	if !contact.IsZero() {
		result.ContactInfo = &contact
	}
	logger.Debug("chat turn processed",
		"handler", handler,
		"step", result.Step,
		"topics", len(topics),
		"suggest_agent", suggest,
		"phrases_version", s.inferencer.PhrasesVersion(),
	)
	return result, nil
}

func (s *Service) loadOrCreate(ctx context.Context, id, clientIP string) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		now := s.now()
		return &Session{ID: id, IPAddress: clientIP, CreatedAt: now, UpdatedAt: now}, nil
	case err != nil:
		return nil, fmt.Errorf("conversation: load session: %w", err)
	}
	if session.IPAddress == "" {
		session.IPAddress = clientIP
	}
	return session, nil
}

// reply answers from the scheduling flow when it recognises the turn and
// falls back to the LLM otherwise.
func (s *Service) reply(ctx context.Context, history chat.History) (string, string, error) {
	if decision := s.inferencer.Infer(history); decision.Handled {
		return decision.Reply, metrics.HandlerScheduling, nil
	}

	started := time.Now()
	resp, err := s.llm.Complete(ctx, LLMRequest{
		System:      []string{s.systemPrompt},
		Messages:    toChatMessages(history),
		MaxTokens:   s.maxTokens,
		Temperature: -1,
	})
	s.metrics.ObserveLLMLatency("chat", time.Since(started).Seconds())
	if err != nil {
		s.metrics.ObserveLLMError("chat")
		return "", "", err
	}
	s.logger.Debug("llm reply", "provider", resp.Provider, "stop_reason", resp.StopReason, "output_tokens", resp.Usage.OutputTokens)
	return resp.Text, metrics.HandlerLLM, nil
}

// GetHistory returns the stored transcript of a session.
func (s *Service) GetHistory(ctx context.Context, sessionID string) (chat.History, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

// LeadNotes summarizes a session for a lead submitted through the form.
func (s *Service) LeadNotes(ctx context.Context, sessionID string) (string, bool) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil || len(session.Messages) == 0 {
		return "", false
	}
	started := time.Now()
	notes, err := s.summarizer.Summarize(ctx, session.Messages, session.Topics)
	s.metrics.ObserveLLMLatency("summary", time.Since(started).Seconds())
	if err != nil || strings.TrimSpace(notes) == "" {
		s.metrics.ObserveLLMError("summary")
		s.logger.ForSession(sessionID).Warn("lead summary failed, using topics", "error", err)
		return fallbackNotes(session.Topics), true
	}
	return notes, true
}

// LinkLead records leadID on the session. Unknown sessions are ignored.
func (s *Service) LinkLead(ctx context.Context, sessionID, leadID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	session.LeadID = leadID
	session.UpdatedAt = s.now()
	return s.store.Save(ctx, session)
}

// sessionLocks serialises turns of the same session inside one process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
