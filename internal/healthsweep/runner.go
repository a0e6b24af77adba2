package healthsweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Sinks - получатели результатов прохода; любой может быть nil
type Sinks struct {
	Events   port.EventPublisher
	Notifier port.NotificationService
	Gauge    port.HealthGauge
	Metrics  port.MetricsPublisher
	Jobs     port.JobRecorder
}

type Runner struct {
	service *Service
	sinks   Sinks
	log     *logger.Logger
	timeout time.Duration

	runMu sync.Mutex
	// статусы прошлого прохода: project id -> status
	previous map[string]string

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	lastError   string
	lastSummary *CycleSummary
}

func NewRunner(service *Service, sinks Sinks, log *logger.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		service:   service,
		sinks:     sinks,
		log:       log,
		timeout:   timeout,
		startedAt: time.Now(),
	}
}

// Run - обертка для планировщика
func (r *Runner) Run(ctx context.Context) error {
	_, err := r.RunOnce(ctx)
	return err
}

func (r *Runner) RunOnce(ctx context.Context) (summary *CycleSummary, err error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	started := time.Now()
	if r.sinks.Jobs != nil {
		defer func() {
			r.sinks.Jobs.ObserveJob(JobName, time.Since(started).Seconds(), err)
		}()
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	summary, err = r.service.EvaluateAll(queryCtx)
	runAt := time.Now()

	if err != nil {
		wrappedErr := fmt.Errorf("health sweep failed: %w", err)
		r.updateFailure(runAt, wrappedErr)
		r.log.Error("Health sweep cycle failed", wrappedErr)
		return nil, wrappedErr
	}

	summary.Transitions = r.diff(summary)
	r.updateSuccess(runAt, summary)
	r.dispatch(ctx, summary)

	r.log.Info(
		"Health sweep cycle completed",
		"projects_total", summary.ProjectsTotal,
		"danger_count", summary.Counts["danger"],
		"warning_count", summary.Counts["warning"],
		"transitions", len(summary.Transitions),
	)

	return summary, nil
}

// diff сравнивает с прошлым проходом. Первый проход задает базу и переходов не дает,
// новые проекты тоже переходом не считаются.
func (r *Runner) diff(summary *CycleSummary) []*dto.HealthTransitionDTO {
	current := make(map[string]string, len(summary.Assessments))
	transitions := make([]*dto.HealthTransitionDTO, 0)

	for _, a := range summary.Assessments {
		current[a.ProjectID] = a.Status
		if r.previous == nil {
			continue
		}
		before, known := r.previous[a.ProjectID]
		if !known || before == a.Status {
			continue
		}
		transitions = append(transitions, &dto.HealthTransitionDTO{
			ProjectID:  a.ProjectID,
			Name:       a.Name,
			Domain:     a.Domain,
			From:       before,
			To:         a.Status,
			ReasonKeys: append([]string(nil), a.ReasonKeys...),
			ChangedAt:  summary.GeneratedAt,
		})
	}

	r.previous = current
	return transitions
}

// dispatch рассылает результат; сбои получателей только логируются
func (r *Runner) dispatch(ctx context.Context, summary *CycleSummary) {
	if r.sinks.Gauge != nil {
		r.sinks.Gauge.SetHealthCounts(summary.Counts)
	}

	for _, t := range summary.Transitions {
		if r.sinks.Events != nil {
			if err := r.sinks.Events.PublishEvent(ctx, port.SubjectHealthChanged, t); err != nil {
				r.log.Warn("Failed to publish health transition", "project_id", t.ProjectID, "error", err.Error())
			}
		}
		if r.sinks.Notifier != nil {
			r.sinks.Notifier.BroadcastTransition(t)
		}
	}

	if r.sinks.Notifier != nil {
		r.sinks.Notifier.BroadcastHealth(&dto.HealthSnapshotDTO{
			Timestamp:     summary.GeneratedAt,
			Total:         summary.ProjectsTotal,
			Counts:        summary.Counts,
			OverallStatus: summary.OverallStatus,
			Transitions:   summary.Transitions,
		})
	}

	if r.sinks.Metrics != nil {
		rollup := dto.HealthRollup{
			Timestamp: summary.GeneratedAt,
			Good:      summary.Counts["good"],
			Warning:   summary.Counts["warning"],
			Danger:    summary.Counts["danger"],
		}
		if err := r.sinks.Metrics.PublishHealthRollup(ctx, rollup); err != nil {
			r.log.Warn("Failed to publish health rollup", "error", err.Error())
		}
	}
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := Snapshot{
		StartedAt: r.startedAt,
		LastRunAt: r.lastRunAt,
		LastError: r.lastError,
	}

	if r.lastSummary != nil {
		copiedSummary := *r.lastSummary
		copiedSummary.Assessments = append([]ProjectAssessment(nil), r.lastSummary.Assessments...)
		copiedSummary.Transitions = append([]*dto.HealthTransitionDTO(nil), r.lastSummary.Transitions...)
		copiedSummary.Counts = make(map[string]int, len(r.lastSummary.Counts))
		for k, v := range r.lastSummary.Counts {
			copiedSummary.Counts[k] = v
		}
		snapshot.LastSummary = &copiedSummary
	}

	return snapshot
}

func (r *Runner) updateFailure(runAt time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = err.Error()
}

func (r *Runner) updateSuccess(runAt time.Time, summary *CycleSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = ""
	r.lastSummary = summary
}
