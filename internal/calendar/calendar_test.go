package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	cal := New(DefaultFederalHolidays())

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"wednesday", date(2026, time.October, 14), true},
		{"saturday", date(2026, time.October, 17), false},
		{"sunday", date(2026, time.October, 18), false},
		{"veterans day", date(2026, time.November, 11), false},
		{"thanksgiving", date(2026, time.November, 26), false},
		{"day after thanksgiving", date(2026, time.November, 27), true},
		{"observed independence day", date(2026, time.July, 3), false},
		{"christmas 2025", date(2025, time.December, 25), false},
		{"observed new year 2028", date(2027, time.December, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsBusinessDay(tt.date))
		})
	}
}

func TestIsBusinessDay_EveryConfiguredHolidayIsClosed(t *testing.T) {
	cal := New(DefaultFederalHolidays())
	for _, h := range FederalHolidays() {
		d, err := time.Parse("2006-01-02", h.Date)
		require.NoError(t, err)
		assert.False(t, cal.IsBusinessDay(d), "holiday %s (%s) should not be a business day", h.Date, h.Name)
	}
}

func TestIsBusinessDay_WeekendsAcrossAYear(t *testing.T) {
	cal := New(nil)
	for d := date(2026, time.January, 1); d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
		assert.Equal(t, !weekend, cal.IsBusinessDay(d), d.Format("2006-01-02"))
	}
}

func TestNextBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  []time.Time
	}{
		{
			name:  "midweek",
			today: date(2026, time.October, 14),
			want:  []time.Time{date(2026, time.October, 16), date(2026, time.October, 19), date(2026, time.October, 20)},
		},
		{
			name:  "skips veterans day",
			today: date(2026, time.November, 9),
			want:  []time.Time{date(2026, time.November, 12), date(2026, time.November, 13), date(2026, time.November, 16)},
		},
		{
			name:  "skips thanksgiving and weekend",
			today: date(2026, time.November, 24),
			want:  []time.Time{date(2026, time.November, 27), date(2026, time.November, 30), date(2026, time.December, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := New(DefaultFederalHolidays(), WithClock(func() time.Time { return tt.today.Add(15 * time.Hour) }), WithLocation(time.UTC))
			assert.Equal(t, tt.want, cal.NextBusinessDays(3, 2))
		})
	}
}

func TestNextBusinessDays_Properties(t *testing.T) {
	cal := New(DefaultFederalHolidays())
	start := date(2025, time.January, 1)
	for i := 0; i < 3*365; i++ {
		today := start.AddDate(0, 0, i)
		days := cal.NextBusinessDaysFrom(today, 3, 2)
		require.Len(t, days, 3)

		earliest := today.AddDate(0, 0, 2)
		assert.False(t, days[0].Before(earliest))
		// nothing between today+2 and the first result is a business day
		for d := earliest; d.Before(days[0]); d = d.AddDate(0, 0, 1) {
			assert.False(t, cal.IsBusinessDay(d))
		}
		for j, d := range days {
			assert.True(t, cal.IsBusinessDay(d))
			if j == 0 {
				continue
			}
			assert.True(t, d.After(days[j-1]))
			for gap := days[j-1].AddDate(0, 0, 1); gap.Before(d); gap = gap.AddDate(0, 0, 1) {
				assert.False(t, cal.IsBusinessDay(gap), "skipped business day %s", gap.Format("2006-01-02"))
			}
		}
	}
}

func TestNextBusinessDays_ZeroCount(t *testing.T) {
	cal := New(nil)
	assert.Nil(t, cal.NextBusinessDaysFrom(date(2026, time.October, 14), 0, 2))
}

func TestTodayUsesClockAndLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 02:00 UTC on the 15th is still the 14th in New York.
	cal := New(nil, WithClock(func() time.Time { return time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC) }), WithLocation(ny))
	today := cal.Today()
	assert.Equal(t, 14, today.Day())
	assert.Equal(t, 0, today.Hour())
}

func TestLoadHolidaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"holidays":[{"date":"2026-10-14","name":"Company Day"}]}`), 0o600))

	provider, err := LoadHolidaysFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Len())

	cal := New(provider)
	assert.False(t, cal.IsBusinessDay(date(2026, time.October, 14)))
	// federal holidays are not implied by a custom table
	assert.True(t, cal.IsBusinessDay(date(2026, time.November, 11)))

	name, ok := provider.Name(2026, time.October, 14)
	assert.True(t, ok)
	assert.Equal(t, "Company Day", name)
}

func TestLoadHolidaysFile_Errors(t *testing.T) {
	_, err := LoadHolidaysFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"holidays":[{"date":"10/14/2026"}]}`), 0o600))
	_, err = LoadHolidaysFile(path)
	assert.Error(t, err)
}
