package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/clara-insurance-guide/internal/calendar"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/internal/scheduling"
)

// Wednesday, October 14, 2026 at 10:30.
var frozenNow = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

type scriptedLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []LLMRequest
}

func (s *scriptedLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	if len(s.replies) == 0 {
		return LLMResponse{Text: "Medicare Part B covers doctor visits."}, nil
	}
	text := s.replies[0]
	s.replies = s.replies[1:]
	return LLMResponse{Text: text}, nil
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type failingLeadRepo struct{}

func (failingLeadRepo) Create(context.Context, *leads.CreateLeadRequest) (*leads.Lead, error) {
	return nil, errors.New("db down")
}

func (failingLeadRepo) GetByID(context.Context, string) (*leads.Lead, error) {
	return nil, leads.ErrLeadNotFound
}

func (failingLeadRepo) List(context.Context, leads.ListFilter) ([]*leads.Lead, error) {
	return nil, errors.New("db down")
}

func newTestInferencer() *scheduling.Inferencer {
	cal := calendar.New(calendar.DefaultFederalHolidays())
	return scheduling.NewInferencer(cal, scheduling.WithNow(func() time.Time { return frozenNow }))
}

type testService struct {
	*Service
	store *MemorySessionStore
	leads leads.Repository
	llm   *scriptedLLM
}

func newTestService(llm *scriptedLLM, repo leads.Repository, opts ...ServiceOption) testService {
	if llm == nil {
		llm = &scriptedLLM{}
	}
	if repo == nil {
		repo = leads.NewInMemoryRepository()
	}
	store := NewMemorySessionStore()
	ids := 0
	opts = append([]ServiceOption{
		WithClock(func() time.Time { return frozenNow }),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		}),
	}, opts...)
	svc, err := NewService(ServiceDeps{
		Store:      store,
		Leads:      repo,
		LLM:        llm,
		Inferencer: newTestInferencer(),
	}, opts...)
	if err != nil {
		panic(err)
	}
	return testService{Service: svc, store: store, leads: repo, llm: llm}
}
