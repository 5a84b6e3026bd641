package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// ThankYouMessage is returned after a lead form submission.
const ThankYouMessage = "Thank you! A licensed agent will reach out to you soon."

// SessionLinker connects form leads to the chat they came from.
type SessionLinker interface {
	// LeadNotes summarizes the session for the agent. ok is false when the
	// session is unknown or empty.
	LeadNotes(ctx context.Context, sessionID string) (notes string, ok bool)
	LinkLead(ctx context.Context, sessionID, leadID string) error
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo     Repository
	sessions SessionLinker
	logger   *logging.Logger
}

// NewHandler creates a new leads handler. sessions may be nil.
func NewHandler(repo Repository, sessions SessionLinker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateLeadResponse is returned by POST /api/leads.
type CreateLeadResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// CreateLead handles POST /api/leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Normalize()
	req.Source = SourceChatForm
	req.Notes = ""

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SessionID != "" && h.sessions != nil {
		if notes, ok := h.sessions.LeadNotes(r.Context(), req.SessionID); ok {
			req.Notes = notes
		}
	}

	lead, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		http.Error(w, "failed to create lead", http.StatusInternalServerError)
		return
	}

	if req.SessionID != "" && h.sessions != nil {
		if err := h.sessions.LinkLead(r.Context(), req.SessionID, lead.ID); err != nil {
			h.logger.Warn("failed to link lead to session", "error", err, "lead_id", lead.ID, "session_id", req.SessionID)
		}
	}

	h.logger.Info("lead created", "id", lead.ID, "source", lead.Source, "interest", lead.InsuranceInterest)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateLeadResponse{ID: lead.ID, Message: ThankYouMessage})
}

// LeadSummary is one row of GET /api/leads.
type LeadSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Interest  string `json:"interest"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	Notes     string `json:"notes,omitempty"`
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []LeadSummary `json:"leads"`
	Count  int           `json:"count"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// ListLeads handles GET /api/leads requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	summaries := make([]LeadSummary, 0, len(leads))
	for _, lead := range leads {
		summaries = append(summaries, LeadSummary{
			ID:        lead.ID,
			Name:      lead.FullName(),
			Email:     lead.Email,
			Phone:     lead.Phone,
			Interest:  lead.InsuranceInterest,
			Source:    lead.Source,
			CreatedAt: lead.CreatedAt.UTC().Format(time.RFC3339),
			Notes:     lead.Notes,
		})
	}

	response := ListLeadsResponse{
		Leads:  summaries,
		Count:  len(summaries),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetLead handles GET /api/leads/{leadID} requests
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	if id == "" {
		http.Error(w, "missing lead id", http.StatusBadRequest)
		return
	}
	lead, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "error", err, "lead_id", id)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}
