package archive

import "time"

const recordVersion = "1.0"

// Outcomes recorded on archived transcripts.
const (
	OutcomeLeadCaptured = "lead_captured"
	OutcomeCallbackSet  = "callback_scheduled"
)

// TranscriptRecord is one chat transcript archived to S3.
type TranscriptRecord struct {
	Version      string    `json:"version"`
	SessionID    string    `json:"session_id"`
	LeadID       string    `json:"lead_id,omitempty"`
	PhoneHash    string    `json:"phone_hash,omitempty"`
	ArchivedAt   time.Time `json:"archived_at"`
	StartedAt    time.Time `json:"started_at"`
	MessageCount int       `json:"message_count"`
	Outcome      string    `json:"outcome"`
	Step         string    `json:"step,omitempty"`
	Topics       []string  `json:"topics,omitempty"`
	Messages     []Message `json:"messages"`
}

// Message is a single conversation turn with PII scrubbed.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ManifestEntry is one JSONL line in the monthly manifest file.
type ManifestEntry struct {
	SessionID    string   `json:"session_id"`
	LeadID       string   `json:"lead_id,omitempty"`
	S3Key        string   `json:"s3_key"`
	Outcome      string   `json:"outcome"`
	Topics       []string `json:"topics,omitempty"`
	ArchivedAt   string   `json:"archived_at"`
	MessageCount int      `json:"message_count"`
}
