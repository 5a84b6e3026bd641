package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

func TestSummaryPrompt_UsesLastSixMessages(t *testing.T) {
	var history chat.History
	for i := 0; i < 5; i++ {
		history = append(history, chat.User("question "+string(rune('A'+i))), chat.Assistant("answer "+string(rune('A'+i))))
	}

	prompt := summaryPrompt(history, []extract.Topic{extract.TopicMedicare, extract.TopicCosts})
	assert.True(t, strings.HasPrefix(prompt, summaryInstructions))
	assert.Contains(t, prompt, "Topics discussed: Medicare, Costs")
	assert.NotContains(t, prompt, "question B")
	assert.Contains(t, prompt, "User: question C")
	assert.Contains(t, prompt, "Assistant: answer E")
}

func TestSummarizer_Summarize(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Caller wants Medigap quotes."}}
	s := NewSummarizer(llm, 0)

	notes, err := s.Summarize(context.Background(), chat.History{chat.User("Medigap?")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Caller wants Medigap quotes.", notes)
	assert.Equal(t, defaultSummaryMaxTokens, llm.requests[0].MaxTokens)

	var nilSummarizer *Summarizer
	_, err = nilSummarizer.Summarize(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestFallbackNotes(t *testing.T) {
	assert.Equal(t, "Topics discussed: Medigap, Costs", fallbackNotes([]extract.Topic{extract.TopicMedigap, extract.TopicCosts}))
	assert.Equal(t, "Topics discussed: ", fallbackNotes(nil))
}
