package healthsweep

import (
	"time"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
)

// JobName - имя задачи в метриках и планировщике
const JobName = "health_sweep"

// ProjectAssessment - оценка одного проекта в проходе
type ProjectAssessment struct {
	ProjectID       string   `json:"project_id"`
	Name            string   `json:"name"`
	Domain          string   `json:"domain"`
	Status          string   `json:"status"`
	ReasonKeys      []string `json:"reason_keys"`
	DaysSinceUpdate int      `json:"days_since_update"`
	DaysUntilExpiry *int     `json:"days_until_expiry,omitempty"`
}

type CycleSummary struct {
	GeneratedAt   time.Time                  `json:"generated_at"`
	ProjectsTotal int                        `json:"projects_total"`
	Counts        map[string]int             `json:"counts"`
	OverallStatus string                     `json:"overall_status"`
	Transitions   []*dto.HealthTransitionDTO `json:"transitions"`
	Assessments   []ProjectAssessment        `json:"assessments"`
}

type Snapshot struct {
	StartedAt   time.Time     `json:"started_at"`
	LastRunAt   time.Time     `json:"last_run_at"`
	LastError   string        `json:"last_error,omitempty"`
	LastSummary *CycleSummary `json:"last_summary,omitempty"`
}
