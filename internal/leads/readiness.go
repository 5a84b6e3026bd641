package leads

import (
	"fmt"
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

// IsReady reports whether extracted contact details are enough for a lead:
// a first name plus an email or phone.
func IsReady(c extract.ContactInfo) bool {
	return c.FirstName != "" && (c.Email != "" || c.Phone != "")
}

// AutoCaptureRequest builds the lead recorded when a chat transcript first
// becomes ready.
func AutoCaptureRequest(sessionID string, c extract.ContactInfo, topics []extract.Topic) *CreateLeadRequest {
	interest := DefaultInterest
	if len(topics) > 0 {
		interest = string(topics[0])
	}
	return &CreateLeadRequest{
		SessionID:         sessionID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		InsuranceInterest: interest,
		Source:            SourceConversational,
		Notes:             fmt.Sprintf("Auto-captured from chat. Topics: %s", strings.Join(extract.TopicStrings(topics), ", ")),
	}
}
