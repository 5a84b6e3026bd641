package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// HolidayProvider answers whether a calendar date is a configured holiday.
type HolidayProvider interface {
	IsHoliday(year int, month time.Month, day int) bool
}

// Holiday is one observed non-business date.
type Holiday struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name,omitempty"`
}

type dateKey struct {
	year  int
	month time.Month
	day   int
}

// StaticHolidays is a HolidayProvider backed by a fixed table.
type StaticHolidays struct {
	dates map[dateKey]string
}

// NewStaticHolidays builds a provider from a holiday table. Entries with a
// malformed date are rejected so a bad config file fails loudly at startup.
func NewStaticHolidays(holidays []Holiday) (*StaticHolidays, error) {
	s := &StaticHolidays{dates: make(map[dateKey]string, len(holidays))}
	for _, h := range holidays {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(h.Date))
		if err != nil {
			return nil, fmt.Errorf("calendar: invalid holiday date %q: %w", h.Date, err)
		}
		s.dates[dateKey{d.Year(), d.Month(), d.Day()}] = h.Name
	}
	return s, nil
}

// IsHoliday implements HolidayProvider.
func (s *StaticHolidays) IsHoliday(year int, month time.Month, day int) bool {
	if s == nil {
		return false
	}
	_, ok := s.dates[dateKey{year, month, day}]
	return ok
}

// Name returns the holiday name for a date, if any.
func (s *StaticHolidays) Name(year int, month time.Month, day int) (string, bool) {
	if s == nil {
		return "", false
	}
	name, ok := s.dates[dateKey{year, month, day}]
	return name, ok
}

// Len reports how many dates are configured.
func (s *StaticHolidays) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}

type holidayFile struct {
	Holidays []Holiday `json:"holidays"`
}

// LoadHolidaysFile reads a JSON holiday table:
//
//	{"holidays": [{"date": "2026-01-01", "name": "New Year's Day"}]}
func LoadHolidaysFile(path string) (*StaticHolidays, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: read holidays file: %w", err)
	}
	var f holidayFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("calendar: decode holidays file: %w", err)
	}
	return NewStaticHolidays(f.Holidays)
}

// federalHolidays lists observed US federal holidays. Weekend holidays are
// listed on their observed weekday.
var federalHolidays = []Holiday{
	// 2025
	{"2025-01-01", "New Year's Day"},
	{"2025-01-20", "Martin Luther King Jr. Day"},
	{"2025-02-17", "Presidents' Day"},
	{"2025-05-26", "Memorial Day"},
	{"2025-06-19", "Juneteenth"},
	{"2025-07-04", "Independence Day"},
	{"2025-09-01", "Labor Day"},
	{"2025-10-13", "Columbus Day"},
	{"2025-11-11", "Veterans Day"},
	{"2025-11-27", "Thanksgiving Day"},
	{"2025-12-25", "Christmas Day"},
	// 2026
	{"2026-01-01", "New Year's Day"},
	{"2026-01-19", "Martin Luther King Jr. Day"},
	{"2026-02-16", "Presidents' Day"},
	{"2026-05-25", "Memorial Day"},
	{"2026-06-19", "Juneteenth"},
	{"2026-07-03", "Independence Day (observed)"},
	{"2026-09-07", "Labor Day"},
	{"2026-10-12", "Columbus Day"},
	{"2026-11-11", "Veterans Day"},
	{"2026-11-26", "Thanksgiving Day"},
	{"2026-12-25", "Christmas Day"},
	// 2027
	{"2027-01-01", "New Year's Day"},
	{"2027-01-18", "Martin Luther King Jr. Day"},
	{"2027-02-15", "Presidents' Day"},
	{"2027-05-31", "Memorial Day"},
	{"2027-06-18", "Juneteenth (observed)"},
	{"2027-07-05", "Independence Day (observed)"},
	{"2027-09-06", "Labor Day"},
	{"2027-10-11", "Columbus Day"},
	{"2027-11-11", "Veterans Day"},
	{"2027-11-25", "Thanksgiving Day"},
	{"2027-12-24", "Christmas Day (observed)"},
	{"2027-12-31", "New Year's Day (observed)"},
}

// FederalHolidays returns a copy of the built-in holiday table.
func FederalHolidays() []Holiday {
	out := make([]Holiday, len(federalHolidays))
	copy(out, federalHolidays)
	return out
}

// DefaultFederalHolidays returns a provider over the built-in table.
func DefaultFederalHolidays() *StaticHolidays {
	s, err := NewStaticHolidays(federalHolidays)
	if err != nil {
		panic(err)
	}
	return s
}
