package valueobject

import "time"

// DayMode определяет, как считаются границы дней
type DayMode int

const (
	// Rolling - целые 24-часовые окна, floor для отрицательных значений
	Rolling DayMode = iota
	// Calendar - разница календарных дат (полночь к полуночи) в зоне from
	Calendar
)

const Day = 24 * time.Hour

// DaysBetween возвращает количество дней от from до to (отрицательное, если to раньше)
func DaysBetween(from, to time.Time, mode DayMode) int {
	if mode == Calendar {
		loc := from.Location()
		fy, fm, fd := from.Date()
		ty, tm, td := to.In(loc).Date()
		start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
		end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
		return int(end.Sub(start) / Day)
	}

	diff := to.Sub(from)
	days := diff / Day
	if diff%Day != 0 && diff < 0 {
		days--
	}
	return int(days)
}

// Midnight возвращает начало календарного дня t в его зоне
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysInMonth - количество дней в месяце
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
