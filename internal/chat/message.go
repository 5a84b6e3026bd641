// Package chat holds the transcript types shared by the inference engine,
// the extractors and the conversation service.
package chat

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry. Messages are never edited once appended.
type Message struct {
	Role    string `json:"role" dynamodbav:"role"`
	Content string `json:"content" dynamodbav:"content"`
}

// User builds a user-authored message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant-authored message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// History is an ordered, append-only transcript.
type History []Message

// LastAssistant returns the most recent assistant message and its index.
func (h History) LastAssistant() (string, int) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleAssistant {
			return h[i].Content, i
		}
	}
	return "", -1
}

// LastUser returns the most recent user message and its index.
func (h History) LastUser() (string, int) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleUser {
			return h[i].Content, i
		}
	}
	return "", -1
}

// UserMessages returns the content of every user message in order.
func (h History) UserMessages() []string {
	out := make([]string, 0, len(h))
	for _, msg := range h {
		if msg.Role == RoleUser {
			out = append(out, msg.Content)
		}
	}
	return out
}

// UserCount counts user-authored messages.
func (h History) UserCount() int {
	n := 0
	for _, msg := range h {
		if msg.Role == RoleUser {
			n++
		}
	}
	return n
}

// Tail returns at most the last n messages.
func (h History) Tail(n int) History {
	if n <= 0 || n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// Clone copies the history so callers can append without aliasing.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneAnswer reports whether text reduces to exactly ten digits.
func IsPhoneAnswer(text string) bool {
	return len(DigitsOnly(text)) == 10
}
