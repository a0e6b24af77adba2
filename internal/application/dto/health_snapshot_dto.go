package dto

import "time"

// HealthSnapshotDTO представляет результат прохода health sweep.
// Используется для передачи через WebSocket
type HealthSnapshotDTO struct {
	Timestamp time.Time      `json:"timestamp"`
	Total     int            `json:"total"`
	Counts    map[string]int `json:"counts"`
	// OverallStatus - худший статус в портфеле
	OverallStatus string                 `json:"overall_status"`
	Transitions   []*HealthTransitionDTO `json:"transitions,omitempty"`
}

// HealthTransitionDTO - смена статуса проекта между проходами
type HealthTransitionDTO struct {
	ProjectID  string    `json:"project_id"`
	Name       string    `json:"name"`
	Domain     string    `json:"domain"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ReasonKeys []string  `json:"reason_keys"`
	ChangedAt  time.Time `json:"changed_at"`
}

// HealthRollup - агрегат для внешних систем метрик
type HealthRollup struct {
	Timestamp time.Time
	Good      int
	Warning   int
	Danger    int
}
