// Package extract pulls contact details and insurance topics out of chat text.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
)

// ContactInfo is recomputed from the transcript on every call. Empty strings
// mean the field was not found. Phone is always ten digits when set.
type ContactInfo struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// IsZero reports whether nothing was extracted.
func (c ContactInfo) IsZero() bool {
	return c == ContactInfo{}
}

// ContactPatterns is the versioned pattern set used by ContactExtractor.
type ContactPatterns struct {
	Version string
	Email   string
	// Phone patterns are tried in order; the first with any match wins.
	Phone []string
	// Name patterns capture a first name and an optional last name.
	Names     []string
	StopWords []string
}

// DefaultContactPatterns returns the production pattern set.
func DefaultContactPatterns() ContactPatterns {
	return ContactPatterns{
		Version: "2026-10-17",
		Email:   `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		Phone: []string{
			`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`,
			`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`,
		},
		// Case-insensitive: "john" and "my name is mary smith" both count.
		// The stop words keep short replies from being read as names.
		Names: []string{
			`(?i)\b(?:my name is|i'm|i am|this is|call me)\s+([A-Z][a-z]+)(?:\s+([A-Z][a-z]+))?`,
			`(?i)^([A-Z][a-z]+)(?:\s+([A-Z][a-z]+))?$`,
		},
		StopWords: []string{
			"yes", "no", "sure", "okay", "ok", "thanks", "thank", "hello", "hi", "hey",
			"yeah", "yep", "nope", "nah", "please", "cool", "perfect", "fine", "sounds", "works",
			"medicare", "medicaid", "medigap", "insurance", "coverage", "plan", "plans", "part", "agent",
			"good", "great", "help", "maybe", "done", "ready", "not", "just", "so", "still", "also",
			"interested", "looking", "calling", "wondering", "trying", "turning", "retiring", "retired",
			"new", "confused", "confusing", "what", "why", "how", "when", "where", "who", "which",
			"the", "a", "an", "it", "that", "about", "and", "or",
			"morning", "afternoon", "evening", "today", "tomorrow", "tonight", "anytime",
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		},
	}
}

// ContactExtractor finds name, email and phone in user-authored messages.
type ContactExtractor struct {
	version   string
	email     *regexp.Regexp
	phones    []*regexp.Regexp
	names     []*regexp.Regexp
	stopWords map[string]struct{}
}

// NewContactExtractor compiles p.
func NewContactExtractor(p ContactPatterns) (*ContactExtractor, error) {
	email, err := regexp.Compile(p.Email)
	if err != nil {
		return nil, fmt.Errorf("extract: compile email pattern: %w", err)
	}
	e := &ContactExtractor{
		version:   p.Version,
		email:     email,
		stopWords: make(map[string]struct{}, len(p.StopWords)),
	}
	for _, expr := range p.Phone {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("extract: compile phone pattern %q: %w", expr, err)
		}
		e.phones = append(e.phones, re)
	}
	for _, expr := range p.Names {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("extract: compile name pattern %q: %w", expr, err)
		}
		e.names = append(e.names, re)
	}
	for _, w := range p.StopWords {
		e.stopWords[strings.ToLower(w)] = struct{}{}
	}
	return e, nil
}

// NewDefaultContactExtractor compiles DefaultContactPatterns.
func NewDefaultContactExtractor() *ContactExtractor {
	e, err := NewContactExtractor(DefaultContactPatterns())
	if err != nil {
		panic(err)
	}
	return e
}

// Version identifies the pattern set in logs.
func (e *ContactExtractor) Version() string {
	return e.version
}

// Extract scans only user messages. Email and phone are searched over all
// user text joined with spaces; names are matched message by message. Each
// field keeps its first accepted value.
func (e *ContactExtractor) Extract(history chat.History) ContactInfo {
	var info ContactInfo
	userMessages := history.UserMessages()
	fullText := strings.Join(userMessages, " ")

	if m := e.email.FindString(fullText); m != "" {
		info.Email = m
	}

	for _, re := range e.phones {
		if m := re.FindString(fullText); m != "" {
			info.Phone = chat.DigitsOnly(m)
			break
		}
	}

	for _, msg := range userMessages {
		msg = normalizeApostrophes(strings.TrimSpace(msg))
		for _, re := range e.names {
			m := re.FindStringSubmatch(msg)
			if m == nil {
				continue
			}
			firstOK := m[1] != "" && !e.isStopWord(m[1])
			if firstOK && info.FirstName == "" {
				info.FirstName = capitalize(m[1])
			}
			if firstOK && len(m) > 2 && m[2] != "" && info.LastName == "" && !e.isStopWord(m[2]) {
				info.LastName = capitalize(m[2])
			}
		}
	}
	return info
}

func (e *ContactExtractor) isStopWord(word string) bool {
	_, ok := e.stopWords[strings.ToLower(word)]
	return ok
}

func normalizeApostrophes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
