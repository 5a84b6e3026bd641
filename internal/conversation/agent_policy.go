package conversation

import (
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/internal/extract"
)

// AgentPolicy decides when the UI should offer a licensed agent.
type AgentPolicy struct {
	MinUserMessages int
	MinTopics       int
	// ParalysisPhrases are lowercase substrings of the latest user message
	// that signal the user is stuck choosing.
	ParalysisPhrases []string
}

func DefaultAgentPolicy() AgentPolicy {
	return AgentPolicy{
		MinUserMessages: 4,
		MinTopics:       3,
		ParalysisPhrases: []string{
			"what should i do", "what plan", "which one", "help me choose", "confused",
			"don't know what", "recommend", "best option", "sign up", "enroll",
		},
	}
}

// ShouldSuggest is true after enough user turns, once enough distinct topics
// came up, or when the latest user message reads as decision paralysis.
func (p AgentPolicy) ShouldSuggest(history chat.History, topics []extract.Topic) bool {
	if p.MinUserMessages > 0 && history.UserCount() >= p.MinUserMessages {
		return true
	}
	if p.MinTopics > 0 && countDistinct(topics) >= p.MinTopics {
		return true
	}
	latest, idx := history.LastUser()
	if idx < 0 {
		return false
	}
	latest = strings.ToLower(strings.ReplaceAll(latest, "’", "'"))
	for _, phrase := range p.ParalysisPhrases {
		if phrase != "" && strings.Contains(latest, phrase) {
			return true
		}
	}
	return false
}

func countDistinct(topics []extract.Topic) int {
	seen := make(map[extract.Topic]struct{}, len(topics))
	for _, t := range topics {
		seen[t] = struct{}{}
	}
	return len(seen)
}
