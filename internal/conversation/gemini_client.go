package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiLLMClient implements LLMClient using Google's Gemini API. It serves
// as the fallback provider when Bedrock is unavailable.
type GeminiLLMClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiLLMClient(ctx context.Context, apiKey, modelID string) (*GeminiLLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}

	return &GeminiLLMClient{
		client:  client,
		modelID: modelID,
	}, nil
}

func (c *GeminiLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	history, last, err := geminiTurns(req.Messages)
	if err != nil {
		return LLMResponse{}, err
	}

	model := c.client.GenerativeModel(c.modelID)
	if req.Temperature >= 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if systemText := geminiSystemText(req); systemText != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemText))
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return LLMResponse{}, fmt.Errorf("conversation: gemini completion failed: %w", err)
	}
	return geminiResponse(resp)
}

// Close releases resources held by the Gemini client.
func (c *GeminiLLMClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func geminiSystemText(req LLMRequest) string {
	parts := make([]string, 0, len(req.System))
	for _, block := range req.System {
		if strings.TrimSpace(block) != "" {
			parts = append(parts, block)
		}
	}
	for _, msg := range req.Messages {
		if msg.Role == ChatRoleSystem && strings.TrimSpace(msg.Content) != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// geminiTurns converts messages into chat history plus the final user text
// that is sent with SendMessage.
func geminiTurns(messages []ChatMessage) ([]*genai.Content, string, error) {
	turns := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == ChatRoleSystem || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		turns = append(turns, msg)
	}
	if len(turns) == 0 {
		return nil, "", errors.New("conversation: gemini requires at least one message")
	}

	last := turns[len(turns)-1]
	if last.Role != ChatRoleUser {
		return nil, "", fmt.Errorf("conversation: gemini final message must come from the user, got %q", last.Role)
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == ChatRoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(strings.TrimSpace(msg.Content))},
		})
	}
	return history, last.Content, nil
}

func geminiResponse(resp *genai.GenerateContentResponse) (LLMResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini returned empty content")
	}

	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	result := LLMResponse{
		Text:       strings.TrimSpace(responseText.String()),
		StopReason: candidate.FinishReason.String(),
		Provider:   ProviderGemini,
	}
	if result.Text == "" {
		return LLMResponse{}, errors.New("conversation: gemini returned no text")
	}
	if resp.UsageMetadata != nil {
		result.Usage = TokenUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	return result, nil
}
