package valueobject

import "fmt"

// HealthStatus - производный статус проекта, никогда не сохраняется
type HealthStatus string

const (
	HealthGood    HealthStatus = "good"
	HealthWarning HealthStatus = "warning"
	HealthDanger  HealthStatus = "danger"
)

func ParseHealthStatus(raw string) (HealthStatus, error) {
	status := HealthStatus(raw)
	switch status {
	case HealthGood, HealthWarning, HealthDanger:
		return status, nil
	default:
		return "", fmt.Errorf("invalid health status: %q", raw)
	}
}

// Severity: good=0, warning=1, danger=2
func (s HealthStatus) Severity() int {
	switch s {
	case HealthDanger:
		return 2
	case HealthWarning:
		return 1
	default:
		return 0
	}
}

// Worse возвращает более тяжелый из двух статусов
func (s HealthStatus) Worse(other HealthStatus) HealthStatus {
	if other.Severity() > s.Severity() {
		return other
	}
	return s
}

func (s HealthStatus) String() string {
	return string(s)
}

func AllHealthStatuses() []HealthStatus {
	return []HealthStatus{HealthGood, HealthWarning, HealthDanger}
}
