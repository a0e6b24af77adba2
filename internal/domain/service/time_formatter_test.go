package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	f := NewTimeFormatter(FixedClock(testNow))
	midnight := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   *time.Time
		want string
	}{
		{"nil", nil, "never"},
		{"today midnight", at(midnight), "today"},
		{"yesterday midnight", at(midnight.AddDate(0, 0, -1)), "yesterday"},
		{"yesterday late evening", at(midnight.Add(-time.Minute)), "yesterday"},
		{"3 days", at(midnight.AddDate(0, 0, -3)), "3 days ago"},
		{"6 days", at(midnight.AddDate(0, 0, -6)), "6 days ago"},
		{"7 days is one week", at(midnight.AddDate(0, 0, -7)), "1 weeks ago"},
		{"29 days", at(midnight.AddDate(0, 0, -29)), "4 weeks ago"},
		{"30 days", at(midnight.AddDate(0, 0, -30)), "1 months ago"},
		{"364 days", at(midnight.AddDate(0, 0, -364)), "12 months ago"},
		{"365 days", at(midnight.AddDate(0, 0, -365)), "1 years ago"},
		{"800 days", at(midnight.AddDate(0, 0, -800)), "2 years ago"},
		{"future clamps to today", at(midnight.AddDate(0, 0, 3)), "today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.RelativeTime(tt.in, englishLookup))
		})
	}
}

func TestRelativeTimeRespectsClockZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2026-10-17 01:00 JST
	f := NewTimeFormatter(FixedClock(time.Date(2026, 10, 17, 1, 0, 0, 0, tokyo)))

	// 2026-10-16 15:30 UTC == 2026-10-17 00:30 JST -> today
	assert.Equal(t, "today", f.RelativeTime(at(time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)), englishLookup))
	// 2026-10-16 14:30 UTC == 2026-10-16 23:30 JST -> yesterday
	assert.Equal(t, "yesterday", f.RelativeTime(at(time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)), englishLookup))
}

func TestDomainExpiryText(t *testing.T) {
	f := NewTimeFormatter(FixedClock(testNow))
	day := 24 * time.Hour

	tests := []struct {
		name string
		in   *time.Time
		want ExpiryText
	}{
		{"nil", nil, ExpiryText{Text: "not set"}},
		{"expired", at(testNow.Add(-time.Hour)), ExpiryText{Text: "expired", Warning: true, Danger: true}},
		{"today still counts as 0 days", at(testNow.Add(time.Hour)), ExpiryText{Text: "⚠ 0 days left", Warning: true, Danger: true}},
		{"14 days", at(testNow.Add(14 * day)), ExpiryText{Text: "⚠ 14 days left", Warning: true, Danger: true}},
		{"15 days", at(testNow.Add(15 * day)), ExpiryText{Text: "⚠ 15 days left", Warning: true}},
		{"29 days", at(testNow.Add(29 * day)), ExpiryText{Text: "⚠ 29 days left", Warning: true}},
		{"30 days", at(testNow.Add(30 * day)), ExpiryText{Text: "30 days left"}},
		{"89 days", at(testNow.Add(89 * day)), ExpiryText{Text: "89 days left"}},
		{"90 days", at(testNow.Add(90 * day)), ExpiryText{Text: "3 months left"}},
		{"364 days", at(testNow.Add(364 * day)), ExpiryText{Text: "12 months left"}},
		{"exactly a year", at(testNow.Add(365 * day)), ExpiryText{Text: "1年"}},
		{"year and days", at(testNow.Add(370 * day)), ExpiryText{Text: "1年5日"}},
		{"years months days", at(testNow.Add((2*365 + 2*30 + 7) * day)), ExpiryText{Text: "2年2月7日"}},
		{"years and months", at(testNow.Add((365 + 60) * day)), ExpiryText{Text: "1年2月"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.DomainExpiryText(tt.in, englishLookup))
		})
	}
}

func TestLaunchDuration(t *testing.T) {
	f := NewTimeFormatter(FixedClock(testNow))

	tests := []struct {
		name string
		in   *time.Time
		want string
	}{
		{"nil", nil, ""},
		{"future", at(testNow.Add(time.Hour)), "not launched"},
		{"one year two months three days", at(testNow.AddDate(-1, -2, -3)), "1 years 2 months 3 days"},
		{"months only", at(testNow.AddDate(0, -4, 0)), "4 months 0 days"},
		{"days only", at(testNow.AddDate(0, 0, -12)), "12 total days"},
		{"launched today", at(testNow.Add(-time.Hour)), "0 total days"},
	}

	// testNow не годится для месячной границы, поэтому отдельный форматтер
	endOfMonth := NewTimeFormatter(FixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 months -2 days",
		endOfMonth.LaunchDuration(at(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)), englishLookup))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.LaunchDuration(tt.in, englishLookup))
		})
	}
}

func TestCalendarSpanBorrowing(t *testing.T) {
	tests := []struct {
		name             string
		from, to         time.Time
		years, months, d int
	}{
		{
			name:  "borrow days from previous month",
			from:  time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			years: 0, months: 1, d: 13,
		},
		{
			name:  "borrow a year",
			from:  time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			years: 0, months: 2, d: 21,
		},
		{
			name:  "borrow across january",
			from:  time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
			years: 0, months: 0, d: 6,
		},
		{
			name:  "end of long month through february keeps negative days",
			from:  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			years: 0, months: 1, d: -2,
		},
		{
			name:  "leap february borrow",
			from:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			years: 0, months: 1, d: -1,
		},
		{
			name:  "exact anniversary",
			from:  time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			years: 6, months: 0, d: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m, d := CalendarSpan(tt.from, tt.to)
			assert.Equal(t, []int{tt.years, tt.months, tt.d}, []int{y, m, d})
		})
	}
}
