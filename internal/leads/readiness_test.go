package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

func TestIsReady(t *testing.T) {
	tests := []struct {
		name    string
		contact extract.ContactInfo
		want    bool
	}{
		{"name and phone", extract.ContactInfo{FirstName: "Sam", Phone: "5551234567"}, true},
		{"name and email", extract.ContactInfo{FirstName: "Sam", Email: "sam@example.com"}, true},
		{"email without name", extract.ContactInfo{Email: "a@b.com"}, false},
		{"name only", extract.ContactInfo{FirstName: "Sam", LastName: "Lee"}, false},
		{"empty", extract.ContactInfo{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReady(tt.contact))
		})
	}
}

func TestAutoCaptureRequest(t *testing.T) {
	req := AutoCaptureRequest("sess-9",
		extract.ContactInfo{FirstName: "Maria", LastName: "Lopez", Email: "maria@example.com"},
		[]extract.Topic{extract.TopicMedigap, extract.TopicCosts})

	assert.Equal(t, "Medigap", req.InsuranceInterest)
	assert.Equal(t, SourceConversational, req.Source)
	assert.Equal(t, "Auto-captured from chat. Topics: Medigap, Costs", req.Notes)
	assert.Equal(t, "sess-9", req.SessionID)
	require.NoError(t, req.Validate())

	general := AutoCaptureRequest("s", extract.ContactInfo{FirstName: "Sam", Phone: "5551234567"}, nil)
	assert.Equal(t, DefaultInterest, general.InsuranceInterest)
	assert.Equal(t, "Auto-captured from chat. Topics: ", general.Notes)
}

func TestCreateLeadRequest_Normalize(t *testing.T) {
	req := &CreateLeadRequest{FirstName: "  Ann ", State: " ny ", Email: " ann@example.com "}
	req.Normalize()
	assert.Equal(t, "Ann", req.FirstName)
	assert.Equal(t, "NY", req.State)
	assert.Equal(t, "ann@example.com", req.Email)
	assert.Equal(t, DefaultInterest, req.InsuranceInterest)
	assert.Equal(t, SourceChatForm, req.Source)
	assert.NoError(t, req.Validate())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidEmail))
	assert.False(t, IsValidationError(ErrLeadNotFound))
}
