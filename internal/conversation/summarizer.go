package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

const (
	summaryWindow                 = 6
	defaultSummaryMaxTokens int32 = 200
)

// Summarizer writes lead notes for agents from the tail of a transcript.
type Summarizer struct {
	llm       LLMClient
	maxTokens int32
}

func NewSummarizer(llm LLMClient, maxTokens int32) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = defaultSummaryMaxTokens
	}
	return &Summarizer{llm: llm, maxTokens: maxTokens}
}

// Summarize asks the model for a short summary of the last six messages.
func (s *Summarizer) Summarize(ctx context.Context, history chat.History, topics []extract.Topic) (string, error) {
	if s == nil || s.llm == nil {
		return "", fmt.Errorf("conversation: summarizer has no llm client")
	}
	resp, err := s.llm.Complete(ctx, LLMRequest{
		System:      []string{summarySystemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: summaryPrompt(history, topics)}},
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: summarize transcript: %w", err)
	}
	return resp.Text, nil
}

func summaryPrompt(history chat.History, topics []extract.Topic) string {
	var b strings.Builder
	b.WriteString(summaryInstructions)
	b.WriteString("\n\nTopics discussed: ")
	b.WriteString(strings.Join(extract.TopicStrings(topics), ", "))
	b.WriteString("\n\nConversation:\n")
	for _, msg := range history.Tail(summaryWindow) {
		role := "Assistant"
		if msg.Role == chat.RoleUser {
			role = "User"
		}
		fmt.Fprintf(&b, "\n%s: %s", role, msg.Content)
	}
	return b.String()
}

// fallbackNotes is used when the model cannot summarize.
func fallbackNotes(topics []extract.Topic) string {
	return "Topics discussed: " + strings.Join(extract.TopicStrings(topics), ", ")
}
