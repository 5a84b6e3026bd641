package scheduling

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
)

// Decision is the inferencer's verdict for one turn. Handled is false when the
// language model should answer instead.
type Decision struct {
	Step    Step
	Reply   string
	Handled bool
}

var (
	selfIntroPattern     = regexp.MustCompile(`(?i)\b(?:my name is|i'm|i am|this is|call me|it's)\s+([a-z][a-z'-]*)`)
	confirmedDatePattern = regexp.MustCompile(`Great, (.+?) it is`)
)

// Inferencer walks a user through name, phone, date and time without model
// calls. It is pure over the history it is given; "today" comes from the
// injected clock.
type Inferencer struct {
	phrases Phrases
	policy  Policy
	cal     BusinessDays
	parser  *DateParser
	now     func() time.Time
	loc     *time.Location
}

// InferencerOption customizes an Inferencer.
type InferencerOption func(*Inferencer)

// WithPhrases replaces the trigger phrase table.
func WithPhrases(ph Phrases) InferencerOption {
	return func(in *Inferencer) { in.phrases = ph }
}

// WithPolicy replaces the lead-time policy.
func WithPolicy(p Policy) InferencerOption {
	return func(in *Inferencer) { in.policy = p.normalized() }
}

// WithNow sets the clock used for "today".
func WithNow(now func() time.Time) InferencerOption {
	return func(in *Inferencer) {
		if now != nil {
			in.now = now
		}
	}
}

// WithLocation fixes the zone "today" is taken in. Without it the clock's
// own zone is used.
func WithLocation(loc *time.Location) InferencerOption {
	return func(in *Inferencer) { in.loc = loc }
}

// NewInferencer builds an inferencer over cal.
func NewInferencer(cal BusinessDays, opts ...InferencerOption) *Inferencer {
	in := &Inferencer{
		phrases: DefaultPhrases(),
		policy:  DefaultPolicy(),
		cal:     cal,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.parser = NewDateParser(cal, in.policy)
	return in
}

// PhrasesVersion identifies the phrase table in logs.
func (in *Inferencer) PhrasesVersion() string {
	return in.phrases.Version
}

// DetectStep classifies the most recent assistant message with this
// inferencer's phrase table.
func (in *Inferencer) DetectStep(history chat.History) Step {
	return classifyAssistant(in.phrases, history)
}

// Infer decides the next assistant reply. The rules are evaluated in a fixed
// order and earlier rules pre-empt later ones.
func (in *Inferencer) Infer(history chat.History) Decision {
	ph := in.phrases

	if len(history) == 1 && ph.hasIntent(strings.ToLower(history[0].Content)) {
		return in.askName()
	}

	lastAssistant, assistantIdx := history.LastAssistant()
	assistantText := strings.ToLower(lastAssistant)
	if assistantIdx >= 0 && containsAny(assistantText, ph.Completion) {
		return Decision{Step: StepConfirmed}
	}

	latestUser, _ := history.LastUser()
	userText := strings.ToLower(latestUser)

	if ph.hasIntent(userText) && !in.everAskedName(history) {
		return in.askName()
	}

	if assistantIdx < 0 {
		return Decision{Step: StepIdle}
	}

	if ph.asksName(assistantText) && !chat.IsPhoneAnswer(latestUser) {
		return in.askPhone(extractNameToken(latestUser))
	}

	if ph.asksTime(assistantText) {
		bucket, raw := in.timeOfDay(latestUser)
		return in.confirm(history, bucket, raw)
	}

	if ph.asksDate(assistantText) {
		if date, ok := in.parser.Parse(latestUser, in.today()); ok {
			return Decision{
				Step: StepAwaitingTime,
				Reply: fmt.Sprintf("Great, %s it is! What time of day works best for your call: %s?",
					FormatDate(date), joinChoices(ph.TimeBuckets)),
				Handled: true,
			}
		}
		return Decision{
			Step: StepAwaitingDate,
			Reply: fmt.Sprintf("I wasn't able to book that date. Our next available days are %s. Which day works best for you?",
				formatOptions(in.options())),
			Handled: true,
		}
	}

	if chat.IsPhoneAnswer(latestUser) && ph.asksPhone(assistantText) {
		greeting := "Thanks!"
		if name := in.recoverName(history); name != "" {
			greeting = fmt.Sprintf("Thanks, %s!", name)
		}
		return Decision{
			Step: StepAwaitingDate,
			Reply: fmt.Sprintf("%s I've got your number as %s. Our next available days for a call are %s. Which day works best for you?",
				greeting, chat.DigitsOnly(latestUser), formatOptions(in.options())),
			Handled: true,
		}
	}

	return Decision{Step: StepIdle}
}

func (in *Inferencer) today() time.Time {
	now := in.now()
	if in.loc != nil {
		now = now.In(in.loc)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func (in *Inferencer) options() []time.Time {
	return in.cal.NextBusinessDaysFrom(in.today(), in.policy.OptionCount, in.policy.MinLeadDays)
}

func (in *Inferencer) askName() Decision {
	return Decision{
		Step:    StepAwaitingName,
		Reply:   "I'd be glad to set up a call with one of our licensed agents. What's your name?",
		Handled: true,
	}
}

func (in *Inferencer) askPhone(name string) Decision {
	reply := "Thanks! What's the best phone number to reach you?"
	if name != "" {
		reply = fmt.Sprintf("Nice to meet you, %s! What's the best phone number to reach you?", name)
	}
	return Decision{Step: StepAwaitingPhone, Reply: reply, Handled: true}
}

func (in *Inferencer) everAskedName(history chat.History) bool {
	return in.firstNameQuestion(history) >= 0
}

func (in *Inferencer) firstNameQuestion(history chat.History) int {
	for i, msg := range history {
		if msg.Role == chat.RoleAssistant && in.phrases.asksName(strings.ToLower(msg.Content)) {
			return i
		}
	}
	return -1
}

// timeOfDay buckets the answer, falling back to the user's own words.
func (in *Inferencer) timeOfDay(answer string) (bucket string, raw string) {
	lower := strings.ToLower(answer)
	for _, b := range in.phrases.TimeBuckets {
		if strings.Contains(lower, b) {
			return b, ""
		}
	}
	return "", strings.TrimSpace(answer)
}

func (in *Inferencer) confirm(history chat.History, bucket, raw string) Decision {
	name := in.recoverName(history)
	phone := recoverPhone(history)
	date := recoverDate(history)

	var b strings.Builder
	b.WriteString("Perfect")
	if name != "" {
		b.WriteString(", ")
		b.WriteString(name)
	}
	b.WriteString("! A licensed agent will call you")
	if phone != "" {
		b.WriteString(" at ")
		b.WriteString(phone)
	}
	if date != "" {
		b.WriteString(" on ")
		b.WriteString(date)
	}
	switch {
	case bucket != "":
		b.WriteString(" in the ")
		b.WriteString(bucket)
	case raw != "":
		fmt.Fprintf(&b, " at your preferred time (%s)", raw)
	}
	b.WriteString(". If anything changes, just let me know here.")

	return Decision{Step: StepConfirmed, Reply: b.String(), Handled: true}
}

// recoverName returns the first user answer containing a letter after the
// first assistant name question.
func (in *Inferencer) recoverName(history chat.History) string {
	start := in.firstNameQuestion(history)
	if start < 0 {
		return ""
	}
	for _, msg := range history[start+1:] {
		if msg.Role != chat.RoleUser || !hasLetter(msg.Content) {
			continue
		}
		return extractNameToken(msg.Content)
	}
	return ""
}

// recoverPhone returns the most recent earlier user message that is a bare
// ten-digit number.
func recoverPhone(history chat.History) string {
	_, latest := history.LastUser()
	for i := latest - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == chat.RoleUser && chat.IsPhoneAnswer(msg.Content) {
			return chat.DigitsOnly(msg.Content)
		}
	}
	return ""
}

func recoverDate(history chat.History) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != chat.RoleAssistant {
			continue
		}
		if m := confirmedDatePattern.FindStringSubmatch(history[i].Content); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractNameToken prefers a self-introduction and otherwise takes the first
// word of the answer.
func extractNameToken(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "’", "'")
	if m := selfIntroPattern.FindStringSubmatch(text); m != nil {
		return capitalizeNameWord(m[1])
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	token := strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})
	return capitalizeNameWord(token)
}

func capitalizeNameWord(word string) string {
	if word == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return strings.ToUpper(string(first)) + strings.ToLower(word[size:])
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func joinChoices(choices []string) string {
	switch len(choices) {
	case 0:
		return ""
	case 1:
		return choices[0]
	case 2:
		return choices[0] + " or " + choices[1]
	}
	return strings.Join(choices[:len(choices)-1], ", ") + ", or " + choices[len(choices)-1]
}
