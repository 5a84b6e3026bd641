package scheduling

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/clara-insurance-guide/internal/calendar"
)

// BusinessDays is the calendar capability the parser and inferencer need.
type BusinessDays interface {
	IsBusinessDay(date time.Time) bool
	NextBusinessDaysFrom(today time.Time, count, minDaysAhead int) []time.Time
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

const monthAlternation = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var (
	monthDayPattern   = regexp.MustCompile(`(?i)\b` + monthAlternation + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	numericDayPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/\d{2,4})?\b`)
	weekdayMonthDay   = regexp.MustCompile(`(?i)\b(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,\s*` + monthAlternation + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
)

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// monthDayMatcher pulls a month and day out of text without validating them.
type monthDayMatcher func(text string) (time.Month, int, bool)

// DateParser turns a free-text answer into a callback date that satisfies Policy.
type DateParser struct {
	cal      BusinessDays
	policy   Policy
	matchers []monthDayMatcher
}

// NewDateParser builds a parser over cal.
func NewDateParser(cal BusinessDays, policy Policy) *DateParser {
	return &DateParser{
		cal:    cal,
		policy: policy.normalized(),
		matchers: []monthDayMatcher{
			matchNamedMonth(monthDayPattern),
			matchNumeric,
			matchNamedMonth(weekdayMonthDay),
		},
	}
}

// Parse returns the date text refers to, or false when nothing matches or the
// date is too soon or not a business day. A weekday name anywhere in text
// takes precedence over explicit month/day forms.
func (p *DateParser) Parse(text string, today time.Time) (time.Time, bool) {
	today = calendar.DateOnly(today)
	earliest := today.AddDate(0, 0, p.policy.MinLeadDays)

	lower := strings.ToLower(text)
	for _, wd := range weekdayOrder {
		if !strings.Contains(lower, strings.ToLower(wd.String())) {
			continue
		}
		delta := (int(wd) - int(today.Weekday()) + 7) % 7
		candidate := today.AddDate(0, 0, delta)
		if candidate.Before(earliest) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		if !p.cal.IsBusinessDay(candidate) {
			return time.Time{}, false
		}
		return candidate, true
	}

	for _, match := range p.matchers {
		month, day, ok := match(text)
		if !ok {
			continue
		}
		candidate, ok := resolveYear(month, day, today)
		if !ok {
			continue
		}
		if candidate.Before(earliest) || !p.cal.IsBusinessDay(candidate) {
			continue
		}
		return candidate, true
	}
	return time.Time{}, false
}

// resolveYear places month/day in today's year, or next year if that is
// already past. Impossible dates such as February 30 are rejected.
func resolveYear(month time.Month, day int, today time.Time) (time.Time, bool) {
	for _, year := range []int{today.Year(), today.Year() + 1} {
		d := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		if d.Month() != month || d.Day() != day {
			if year == today.Year() {
				continue
			}
			return time.Time{}, false
		}
		if d.Before(today) {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

func matchNamedMonth(re *regexp.Regexp) monthDayMatcher {
	return func(text string) (time.Month, int, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, 0, false
		}
		month, ok := monthByPrefix[strings.ToLower(m[1])]
		if !ok {
			return 0, 0, false
		}
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, false
		}
		return month, day, true
	}
}

func matchNumeric(text string) (time.Month, int, bool) {
	m := numericDayPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(m[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return time.Month(month), day, true
}

// FormatDate renders a callback date the way replies show it, e.g. "Friday, October 16".
func FormatDate(d time.Time) string {
	return d.Format("Monday, January 2")
}

// formatOptions renders dates as "Friday (October 16), Monday (October 19), or Tuesday (October 20)".
func formatOptions(days []time.Time) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.Format("Monday (January 2)")
	}
	return joinChoices(parts)
}
