package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]*Lead, error)
}

// InMemoryRepository keeps leads in process memory. Used in tests and when no
// DATABASE_URL is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
	now   func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := req.toLead(uuid.New().String(), r.now())

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.order = append(r.order, lead.ID)
	r.mu.Unlock()

	copied := *lead
	return &copied, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := *lead
	return &copied, nil
}

// List returns leads newest first. Leads created in the same instant keep
// reverse insertion order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	filter = filter.normalized()

	r.mu.RLock()
	all := make([]*Lead, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		copied := *r.leads[r.order[i]]
		all = append(all, &copied)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset >= len(all) {
		return []*Lead{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], nil
}
