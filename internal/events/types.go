package events

import (
	"time"

	"github.com/wolfman30/clara-insurance-guide/internal/extract"
	"github.com/wolfman30/clara-insurance-guide/internal/leads"
)

const EventTypeLeadCaptured = "lead.captured.v1"

// LeadCapturedV1 is emitted once per chat session when its transcript first
// yields enough contact details for a lead.
type LeadCapturedV1 struct {
	LeadID     string    `json:"lead_id"`
	SessionID  string    `json:"session_id,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Interest   string    `json:"insurance_interest"`
	Source     string    `json:"source"`
	Topics     []string  `json:"topics,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

func (LeadCapturedV1) EventType() string { return EventTypeLeadCaptured }

// NewLeadCaptured builds the event from a stored lead and the session topics.
func NewLeadCaptured(lead *leads.Lead, topics []extract.Topic) LeadCapturedV1 {
	return LeadCapturedV1{
		LeadID:     lead.ID,
		SessionID:  lead.SessionID,
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Interest:   lead.InsuranceInterest,
		Source:     lead.Source,
		Topics:     extract.TopicStrings(topics),
		CapturedAt: lead.CreatedAt,
	}
}

// LeadAggregate is the aggregate key for lead events.
func LeadAggregate(leadID string) string {
	return "lead:" + leadID
}
