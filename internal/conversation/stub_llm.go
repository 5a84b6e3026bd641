package conversation

import "context"

const stubReply = "I'm not able to look that up right now. A licensed agent can walk you through your options; just say you'd like to talk to an agent and I'll set up a call."

// StubLLMClient answers every request with a fixed referral. Used when no
// model is configured so the scheduling flow still works locally.
type StubLLMClient struct{}

func NewStubLLMClient() *StubLLMClient { return &StubLLMClient{} }

func (*StubLLMClient) Complete(ctx context.Context, _ LLMRequest) (LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return LLMResponse{}, err
	}
	return LLMResponse{Text: stubReply, StopReason: "stub", Provider: ProviderStub}, nil
}

var _ LLMClient = (*StubLLMClient)(nil)
