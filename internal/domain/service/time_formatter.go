package service

import (
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Ключи шаблонов форматирования
const (
	KeyNever          = "time.never"
	KeyToday          = "time.today"
	KeyYesterday      = "time.yesterday"
	KeyDaysAgo        = "time.daysAgo"
	KeyWeeksAgo       = "time.weeksAgo"
	KeyMonthsAgo      = "time.monthsAgo"
	KeyYearsAgo       = "time.yearsAgo"
	KeyExpiryNotSet   = "expiry.notSet"
	KeyExpired        = "expiry.expired"
	KeyDaysLeftUrgent = "expiry.daysLeftUrgent"
	KeyDaysLeft       = "expiry.daysLeft"
	KeyMonthsLeft     = "expiry.monthsLeft"
	KeyYearsPart      = "expiry.yearsPart"
	KeyMonthsPart     = "expiry.monthsPart"
	KeyDaysPart       = "expiry.daysPart"
	KeyNotLaunched    = "launch.notLaunched"
	KeyLaunchFull     = "launch.full"
	KeyLaunchMonths   = "launch.monthsDays"
	KeyLaunchDays     = "launch.totalDays"
)

// ExpiryText - текст о сроке домена и флаги подсветки
type ExpiryText struct {
	Text    string `json:"text"`
	Warning bool   `json:"warning"`
	Danger  bool   `json:"danger"`
}

// TimeFormatter вычисляет интервалы и параметры; сам текст дает Lookup
type TimeFormatter struct {
	clock Clock
}

func NewTimeFormatter(clock Clock) *TimeFormatter {
	return &TimeFormatter{clock: clock}
}

// RelativeTime: "today", "yesterday", "N days ago" ... по календарным дням.
// Даты в будущем считаются сегодняшними.
func (f *TimeFormatter) RelativeTime(t *time.Time, lookup Lookup) string {
	if t == nil {
		return lookup(KeyNever, nil)
	}

	now := f.clock.Now()
	days := valueobject.DaysBetween(t.In(now.Location()), now, valueobject.Calendar)
	switch {
	case days <= 0:
		return lookup(KeyToday, nil)
	case days == 1:
		return lookup(KeyYesterday, nil)
	case days < 7:
		return lookup(KeyDaysAgo, count(days))
	case days < 30:
		return lookup(KeyWeeksAgo, count(days/7))
	case days < 365:
		return lookup(KeyMonthsAgo, count(days/30))
	default:
		return lookup(KeyYearsAgo, count(days/365))
	}
}

// DomainExpiryText использует скользящие 24-часовые окна, как и классификатор
func (f *TimeFormatter) DomainExpiryText(expiry *time.Time, lookup Lookup) ExpiryText {
	if expiry == nil {
		return ExpiryText{Text: lookup(KeyExpiryNotSet, nil)}
	}

	days := valueobject.DaysBetween(f.clock.Now(), *expiry, valueobject.Rolling)
	switch {
	case days < 0:
		return ExpiryText{Text: lookup(KeyExpired, nil), Warning: true, Danger: true}
	case days < ExpiryDangerDays:
		return ExpiryText{Text: lookup(KeyDaysLeftUrgent, count(days)), Warning: true, Danger: true}
	case days < ExpiryWarningDays:
		return ExpiryText{Text: lookup(KeyDaysLeftUrgent, count(days)), Warning: true}
	case days < 90:
		return ExpiryText{Text: lookup(KeyDaysLeft, count(days))}
	case days < 365:
		return ExpiryText{Text: lookup(KeyMonthsLeft, count(days/30))}
	}

	years := days / 365
	months := (days % 365) / 30
	rest := (days % 365) % 30

	var b strings.Builder
	b.WriteString(lookup(KeyYearsPart, count(years)))
	if months > 0 {
		b.WriteString(lookup(KeyMonthsPart, count(months)))
	}
	if rest > 0 {
		b.WriteString(lookup(KeyDaysPart, count(rest)))
	}
	return ExpiryText{Text: b.String()}
}

// LaunchDuration - возраст сайта в календарных годах, месяцах и днях
func (f *TimeFormatter) LaunchDuration(launchedAt *time.Time, lookup Lookup) string {
	if launchedAt == nil {
		return ""
	}

	now := f.clock.Now()
	if launchedAt.After(now) {
		return lookup(KeyNotLaunched, nil)
	}

	years, months, days := CalendarSpan(launchedAt.In(now.Location()), now)
	switch {
	case years > 0:
		return lookup(KeyLaunchFull, map[string]any{"years": years, "months": months, "days": days})
	case months > 0:
		return lookup(KeyLaunchMonths, map[string]any{"months": months, "days": days})
	default:
		total := valueobject.DaysBetween(launchedAt.In(now.Location()), now, valueobject.Calendar)
		return lookup(KeyLaunchDays, map[string]any{"days": total})
	}
}

// CalendarSpan считает разницу (годы, месяцы, дни) с заимствованием:
// отрицательные дни берут длину предыдущего месяца, отрицательные месяцы - год.
// Заимствуется один месяц, поэтому от конца длинного месяца через короткий
// дни остаются отрицательными: 31 января -> 1 марта = (0, 1, -2).
func CalendarSpan(from, to time.Time) (int, int, int) {
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	days := to.Day() - from.Day()

	if days < 0 {
		months--
		prevYear, prevMonth := to.Year(), to.Month()-1
		if prevMonth < time.January {
			prevYear, prevMonth = prevYear-1, time.December
		}
		days += valueobject.DaysInMonth(prevYear, prevMonth, to.Location())
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months, days
}

func count(n int) map[string]any {
	return map[string]any{"count": n}
}
