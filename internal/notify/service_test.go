package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clara-insurance-guide/internal/leads"
)

type mockEmailSender struct {
	sent   []EmailMessage
	failOn string
}

func (m *mockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleLead() *leads.Lead {
	return &leads.Lead{
		ID:                "lead-1",
		FirstName:         "John",
		LastName:          "Smith",
		Phone:             "5551234567",
		InsuranceInterest: "Medigap",
		Source:            leads.SourceConversational,
		Notes:             "Auto-captured from chat. Topics: Medigap <plans>",
	}
}

func TestLeadNotifier_NotifyNewLead(t *testing.T) {
	sender := &mockEmailSender{}
	n := NewLeadNotifier(sender, []string{"a@example.com", " ", "b@example.com"}, nil)
	require.True(t, n.Enabled())

	require.NoError(t, n.NotifyNewLead(context.Background(), sampleLead()))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "a@example.com", sender.sent[0].To)
	assert.Equal(t, "b@example.com", sender.sent[1].To)

	msg := sender.sent[0]
	assert.Equal(t, "New Lead - John Smith (Medigap)", msg.Subject)
	assert.Contains(t, msg.Body, "Phone: (555) 123-4567")
	assert.NotContains(t, msg.Body, "Email:")
	assert.Contains(t, msg.HTML, "Medigap &lt;plans&gt;")
	assert.Equal(t, CategoryLeadCaptured, msg.Category)
	assert.Empty(t, msg.ReplyTo)
}

func TestLeadNotifier_ReplyToLeadEmail(t *testing.T) {
	sender := &mockEmailSender{}
	lead := sampleLead()
	lead.Email = "john@example.com"

	require.NoError(t, NewLeadNotifier(sender, []string{"agent@example.com"}, nil).NotifyNewLead(context.Background(), lead))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "john@example.com", sender.sent[0].ReplyTo)
	assert.Contains(t, sender.sent[0].Body, "Email: john@example.com")
}

func TestLeadNotifier_PartialFailure(t *testing.T) {
	sender := &mockEmailSender{failOn: "a@example.com"}
	n := NewLeadNotifier(sender, []string{"a@example.com", "b@example.com"}, nil)

	err := n.NotifyNewLead(context.Background(), sampleLead())
	require.Error(t, err)
	assert.Len(t, sender.sent, 1, "remaining recipients are still attempted")
}

func TestLeadNotifier_Disabled(t *testing.T) {
	assert.False(t, NewLeadNotifier(nil, []string{"a@example.com"}, nil).Enabled())
	assert.False(t, NewLeadNotifier(&mockEmailSender{}, nil, nil).Enabled())

	var n *LeadNotifier
	assert.NoError(t, n.NotifyNewLead(context.Background(), sampleLead()))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", formatPhone("5551234567"))
	assert.Equal(t, "+15551234567", formatPhone("+15551234567"))
}
