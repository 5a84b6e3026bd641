package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/internal/conversation"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// BuildLLMClient returns Bedrock, Gemini, or Bedrock with Gemini as fallback,
// depending on which credentials are configured. With neither, a canned
// client keeps the scheduling flow usable in development.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (conversation.LLMClient, func()) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	var primary conversation.LLMClient
	if model := strings.TrimSpace(cfg.BedrockModelID); model != "" && awsCfg != nil {
		primary = conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(*awsCfg), model)
		logger.Info("bedrock LLM enabled", "model", model)
	}

	var gemini *conversation.GeminiLLMClient
	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, key, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
		} else {
			gemini = client
			logger.Info("gemini LLM enabled", "model", cfg.GeminiModelID)
		}
	}

	switch {
	case primary != nil && gemini != nil:
		return conversation.NewFallbackLLMClient(primary, gemini, logger), func() { _ = gemini.Close() }
	case primary != nil:
		return primary, noop
	case gemini != nil:
		return gemini, func() { _ = gemini.Close() }
	default:
		logger.Warn("no LLM configured; using canned replies")
		return conversation.NewStubLLMClient(), noop
	}
}
