// Package calendar decides which dates are business days for agent callbacks.
package calendar

import "time"

// Clock returns the current time. Injected so tests can freeze "today".
type Clock func() time.Time

// BusinessCalendar combines the weekend rule with a holiday table.
type BusinessCalendar struct {
	holidays HolidayProvider
	now      Clock
	loc      *time.Location
}

// Option customizes a BusinessCalendar.
type Option func(*BusinessCalendar)

// WithClock overrides the time source.
func WithClock(now Clock) Option {
	return func(c *BusinessCalendar) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(c *BusinessCalendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New builds a calendar. A nil provider means weekends are the only closed days.
func New(holidays HolidayProvider, opts ...Option) *BusinessCalendar {
	c := &BusinessCalendar{
		holidays: holidays,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today returns the current date at midnight in the calendar's location.
func (c *BusinessCalendar) Today() time.Time {
	return DateOnly(c.now().In(c.loc))
}

// IsBusinessDay is false on weekends and configured holidays.
func (c *BusinessCalendar) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c.holidays != nil && c.holidays.IsHoliday(date.Year(), date.Month(), date.Day()) {
		return false
	}
	return true
}

// NextBusinessDays returns count business days starting no earlier than
// today+minDaysAhead.
func (c *BusinessCalendar) NextBusinessDays(count, minDaysAhead int) []time.Time {
	return c.NextBusinessDaysFrom(c.Today(), count, minDaysAhead)
}

// NextBusinessDaysFrom walks forward one calendar day at a time from
// today+minDaysAhead and collects the first count business days.
func (c *BusinessCalendar) NextBusinessDaysFrom(today time.Time, count, minDaysAhead int) []time.Time {
	if count <= 0 {
		return nil
	}
	if minDaysAhead < 0 {
		minDaysAhead = 0
	}
	days := make([]time.Time, 0, count)
	d := DateOnly(today).AddDate(0, 0, minDaysAhead)
	for len(days) < count {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
