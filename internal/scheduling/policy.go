// Package scheduling infers where a conversation is in the callback-booking
// dialogue and produces the deterministic reply for that step.
package scheduling

import "strings"

// Policy holds the calendar rules applied to callback dates.
type Policy struct {
	// MinLeadDays is how many days after today the earliest callback may fall.
	MinLeadDays int
	// OptionCount is how many business days are offered when asking for a date.
	OptionCount int
}

// DefaultPolicy is two days of lead time and three offered dates.
func DefaultPolicy() Policy {
	return Policy{MinLeadDays: 2, OptionCount: 3}
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.MinLeadDays < 0 {
		p.MinLeadDays = def.MinLeadDays
	}
	if p.OptionCount <= 0 {
		p.OptionCount = def.OptionCount
	}
	return p
}

// Phrases is the versioned set of trigger phrases the inferencer matches
// against lowercased message text.
type Phrases struct {
	Version string

	// Intent phrases start the flow on their own.
	Intent []string
	// AgentWords start the flow only together with one of AgentVerbs.
	AgentWords []string
	AgentVerbs []string

	// An assistant message asked for a name when it contains NameWord and one of NameCues.
	NameWord string
	NameCues []string

	// Completion marks a finished booking.
	Completion []string

	// TimeBuckets are offered together when asking for a time of day.
	TimeBuckets []string

	// DateQuestions mark a request for a day; DateWord together with DateWorksWord also does.
	DateQuestions []string
	DateWord      string
	DateWorksWord string

	// PhoneNouns plus one of PhoneCues, and none of PhoneExclusions, mark a phone question.
	PhoneNouns      []string
	PhoneCues       []string
	PhoneExclusions []string
}

// DefaultPhrases returns the phrase table currently in production.
func DefaultPhrases() Phrases {
	return Phrases{
		Version:       "2026-10-01",
		Intent:        []string{"schedule", "call me", "talk to someone", "speak with"},
		AgentWords:    []string{"agent"},
		AgentVerbs:    []string{"talk", "speak", "connect"},
		NameWord:      "name",
		NameCues:      []string{"what", "your name", "may i", "can i"},
		Completion:    []string{"perfect", "agent will call"},
		TimeBuckets:   []string{"morning", "afternoon", "evening"},
		DateQuestions: []string{"what day", "which day", "available days"},
		DateWord:      "day",
		DateWorksWord: "works",
		PhoneNouns:    []string{"phone", "number"},
		PhoneCues:     []string{"what", "best", "reach"},
		PhoneExclusions: []string{
			"confirm",
			"day",
		},
	}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func containsAll(text string, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	for _, n := range needles {
		if !strings.Contains(text, n) {
			return false
		}
	}
	return true
}
