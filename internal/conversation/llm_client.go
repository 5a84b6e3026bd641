package conversation

import (
	"context"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = chat.RoleUser
	ChatRoleAssistant = chat.RoleAssistant
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Provider names reported in LLMResponse.Provider.
const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
	ProviderStub    = "stub"
)

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
	// Provider is the backend that produced Text.
	Provider string
}

// LLMClient is the text-completion collaborator. It is called at most once
// per chat turn and never when the scheduling flow handled the turn.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

func toChatMessages(history chat.History) []ChatMessage {
	out := make([]ChatMessage, 0, len(history))
	for _, msg := range history {
		out = append(out, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return out
}
