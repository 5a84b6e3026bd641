package leads

import (
	"regexp"
	"strings"
	"time"
)

const (
	// SourceChatForm marks leads submitted through the lead form.
	SourceChatForm = "Chatbot"
	// SourceConversational marks leads captured automatically from chat text.
	SourceConversational = "Chatbot - Conversational"
	// DefaultInterest is used when no topic has been discussed yet.
	DefaultInterest = "General"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Lead is a contact record handed off to a licensed agent.
type Lead struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	ZipCode           string    `json:"zip_code,omitempty"`
	State             string    `json:"state,omitempty"`
	InsuranceInterest string    `json:"insurance_interest"`
	Source            string    `json:"source"`
	Notes             string    `json:"notes,omitempty"`
	SessionID         string    `json:"session_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// FullName joins first and last name.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	SessionID         string `json:"session_id,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	ZipCode           string `json:"zip_code,omitempty"`
	State             string `json:"state,omitempty"`
	InsuranceInterest string `json:"insurance_interest"`
	Source            string `json:"-"`
	Notes             string `json:"-"`
}

// Normalize trims whitespace and fills defaults.
func (r *CreateLeadRequest) Normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.State = strings.ToUpper(strings.TrimSpace(r.State))
	r.InsuranceInterest = strings.TrimSpace(r.InsuranceInterest)
	if r.InsuranceInterest == "" {
		r.InsuranceInterest = DefaultInterest
	}
	if r.Source == "" {
		r.Source = SourceChatForm
	}
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return ErrInvalidName
	}
	email := strings.TrimSpace(r.Email)
	if email == "" && strings.TrimSpace(r.Phone) == "" {
		return ErrMissingContact
	}
	if email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if state := strings.TrimSpace(r.State); state != "" && len(state) != 2 {
		return ErrInvalidState
	}
	return nil
}

func (r *CreateLeadRequest) toLead(id string, createdAt time.Time) *Lead {
	return &Lead{
		ID:                id,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		ZipCode:           r.ZipCode,
		State:             r.State,
		InsuranceInterest: r.InsuranceInterest,
		Source:            r.Source,
		Notes:             r.Notes,
		SessionID:         r.SessionID,
		CreatedAt:         createdAt,
	}
}

// ListFilter pages through leads, newest first.
type ListFilter struct {
	Limit  int
	Offset int
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
