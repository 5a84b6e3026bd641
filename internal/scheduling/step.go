package scheduling

import (
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
)

// Step is the stage of the callback-booking dialogue.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingName
	StepAwaitingPhone
	StepAwaitingDate
	StepAwaitingTime
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepAwaitingName:
		return "awaiting_name"
	case StepAwaitingPhone:
		return "awaiting_phone"
	case StepAwaitingDate:
		return "awaiting_date"
	case StepAwaitingTime:
		return "awaiting_time"
	case StepConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// ParseStep is the inverse of Step.String. Unknown values map to StepIdle.
func ParseStep(s string) Step {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "awaiting_name":
		return StepAwaitingName
	case "awaiting_phone":
		return StepAwaitingPhone
	case "awaiting_date":
		return StepAwaitingDate
	case "awaiting_time":
		return StepAwaitingTime
	case "confirmed":
		return StepConfirmed
	default:
		return StepIdle
	}
}

// DetectStep classifies the most recent assistant message. It is the source
// of truth for the step; any copy cached on a session is only a hint.
func DetectStep(history chat.History) Step {
	return classifyAssistant(DefaultPhrases(), history)
}

func classifyAssistant(ph Phrases, history chat.History) Step {
	last, idx := history.LastAssistant()
	if idx < 0 {
		return StepIdle
	}
	text := strings.ToLower(last)
	switch {
	case containsAny(text, ph.Completion):
		return StepConfirmed
	case ph.asksTime(text):
		return StepAwaitingTime
	case ph.asksDate(text):
		return StepAwaitingDate
	case ph.asksPhone(text):
		return StepAwaitingPhone
	case ph.asksName(text):
		return StepAwaitingName
	}
	return StepIdle
}

// The predicates below expect lowercased text.

func (ph Phrases) hasIntent(text string) bool {
	if containsAny(text, ph.Intent) {
		return true
	}
	return containsAny(text, ph.AgentWords) && containsAny(text, ph.AgentVerbs)
}

func (ph Phrases) asksName(text string) bool {
	return ph.NameWord != "" && strings.Contains(text, ph.NameWord) && containsAny(text, ph.NameCues)
}

func (ph Phrases) asksTime(text string) bool {
	return containsAll(text, ph.TimeBuckets)
}

func (ph Phrases) asksDate(text string) bool {
	if containsAny(text, ph.DateQuestions) {
		return true
	}
	return ph.DateWord != "" && ph.DateWorksWord != "" &&
		strings.Contains(text, ph.DateWord) && strings.Contains(text, ph.DateWorksWord)
}

func (ph Phrases) asksPhone(text string) bool {
	return containsAny(text, ph.PhoneNouns) && containsAny(text, ph.PhoneCues) && !containsAny(text, ph.PhoneExclusions)
}
