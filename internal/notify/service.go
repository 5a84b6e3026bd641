// Package notify e-mails the agent inbox when the chat captures a lead.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/leads"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// CategoryLeadCaptured tags new-lead notifications at the provider.
const CategoryLeadCaptured = "lead-captured"

// LeadNotifier tells licensed agents about new leads.
type LeadNotifier struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewLeadNotifier returns a notifier that does nothing when email is nil or
// there are no recipients.
func NewLeadNotifier(email EmailSender, recipients []string, logger *logging.Logger) *LeadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return &LeadNotifier{email: email, recipients: cleaned, logger: logger}
}

// Enabled reports whether NotifyNewLead would send anything.
func (n *LeadNotifier) Enabled() bool {
	return n != nil && n.email != nil && len(n.recipients) > 0
}

// NotifyNewLead emails every recipient. All recipients are attempted even
// when some fail.
func (n *LeadNotifier) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if !n.Enabled() || lead == nil {
		return nil
	}

	msg := leadEmail(lead)
	var failed int
	for _, recipient := range n.recipients {
		msg.To = recipient
		if err := n.email.Send(ctx, msg); err != nil {
			failed++
			n.logger.Warn("lead notification failed", "error", err, "to", recipient, "lead_id", lead.ID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", failed)
	}
	return nil
}

func leadEmail(lead *leads.Lead) EmailMessage {
	name := lead.FullName()
	rows := [][2]string{
		{"Name", name},
		{"Phone", formatPhone(lead.Phone)},
		{"Email", lead.Email},
		{"Interest", lead.InsuranceInterest},
		{"Source", lead.Source},
		{"State", lead.State},
		{"Notes", lead.Notes},
	}

	var text strings.Builder
	text.WriteString("A new lead has come in from the chat!\n\n")
	var htmlRows strings.Builder
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&text, "%s: %s\n", row[0], row[1])
		fmt.Fprintf(&htmlRows, `<tr><td style="padding: 4px 12px 4px 0;"><strong>%s</strong></td><td>%s</td></tr>`,
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	text.WriteString("\nPlease reach out soon.")

	return EmailMessage{
		Subject:  fmt.Sprintf("New Lead - %s (%s)", name, lead.InsuranceInterest),
		ReplyTo:  lead.Email,
		Category: CategoryLeadCaptured,
		Body:     text.String(),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>New lead from the chat</h2>
<table>%s</table>
<p>Please reach out soon.</p>
</div>`, htmlRows.String()),
	}
}

// formatPhone renders ten digits as (555) 123-4567.
func formatPhone(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
}
