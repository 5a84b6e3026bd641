package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// FallbackLLMClient sends a request to primary and, when that fails, once to
// fallback. Bedrock is the usual primary and Gemini the fallback.
type FallbackLLMClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *logging.Logger
}

// NewFallbackLLMClient returns a client that only uses primary when
// fallback is nil.
func NewFallbackLLMClient(primary, fallback LLMClient, logger *logging.Logger) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{primary: primary, fallback: fallback, logger: logger}
}

// Complete returns the primary's answer, or the fallback's when the primary
// errors. A cancelled context is never retried. When both fail the returned
// error wraps both causes.
func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	if c.fallback == nil || ctx.Err() != nil {
		return LLMResponse{}, err
	}

	c.logger.Warn("primary LLM failed, trying fallback", "error", err)
	fbResp, fbErr := c.fallback.Complete(ctx, req)
	if fbErr != nil {
		c.logger.Error("fallback LLM failed", "primary_error", err, "fallback_error", fbErr)
		return LLMResponse{}, fmt.Errorf("conversation: all LLM providers failed: %w", errors.Join(err, fbErr))
	}
	c.logger.Info("fallback LLM answered", "provider", fbResp.Provider)
	return fbResp, nil
}
