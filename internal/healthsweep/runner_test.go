package healthsweep

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/persistence/memory"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type movingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movingClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingSinks struct {
	mu          sync.Mutex
	subjects    []string
	snapshots   []*dto.HealthSnapshotDTO
	transitions []*dto.HealthTransitionDTO
	counts      map[string]int
	rollups     []dto.HealthRollup
	jobs        []error
}

func (s *recordingSinks) PublishEvent(_ context.Context, subject string, _ interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	return errors.New("broker down")
}
func (s *recordingSinks) Close() error { return nil }
func (s *recordingSinks) BroadcastHealth(snapshot *dto.HealthSnapshotDTO) {
	s.snapshots = append(s.snapshots, snapshot)
}
func (s *recordingSinks) BroadcastTransition(t *dto.HealthTransitionDTO) {
	s.transitions = append(s.transitions, t)
}
func (s *recordingSinks) ClientCount() int                      { return 0 }
func (s *recordingSinks) SetHealthCounts(counts map[string]int) { s.counts = counts }
func (s *recordingSinks) PublishHealthRollup(_ context.Context, r dto.HealthRollup) error {
	s.rollups = append(s.rollups, r)
	return nil
}
func (s *recordingSinks) Flush(context.Context) error { return nil }
func (s *recordingSinks) ObserveJob(job string, _ float64, err error) {
	s.jobs = append(s.jobs, err)
}

func (s *recordingSinks) asSinks() Sinks {
	return Sinks{Events: s, Notifier: s, Gauge: s, Metrics: s, Jobs: s}
}

var (
	_ port.EventPublisher      = (*recordingSinks)(nil)
	_ port.NotificationService = (*recordingSinks)(nil)
	_ port.MetricsPublisher    = (*recordingSinks)(nil)
)

var start = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func seed(t *testing.T, repo repository.ProjectRepository, details entity.ProjectDetails) *entity.Project {
	t.Helper()
	p, err := entity.NewProject(details, start)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func newRunner(t *testing.T, repo repository.ProjectRepository, clock service.Clock, sinks Sinks) *Runner {
	t.Helper()
	svc := NewService(repo, service.NewHealthClassifier(clock), clock)
	return NewRunner(svc, sinks, logger.NewWithOptions("error", "text", io.Discard), time.Second)
}

func TestRunOnce_DetectsTransitions(t *testing.T) {
	store := memory.NewStore()
	clock := &movingClock{now: start}
	alpha := seed(t, store.Projects(), entity.ProjectDetails{
		Name: "Alpha", Domain: "alpha.com", LastContentUpdate: ptr(start.AddDate(0, 0, -1)),
	})
	seed(t, store.Projects(), entity.ProjectDetails{
		Name: "Beta", Domain: "beta.com", LastContentUpdate: ptr(start), AdsenseStatus: valueobject.AdsenseBanned,
	})

	sinks := &recordingSinks{}
	runner := newRunner(t, store.Projects(), clock, sinks.asSinks())
	ctx := context.Background()

	first, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.ProjectsTotal)
	assert.Equal(t, map[string]int{"good": 1, "warning": 0, "danger": 1}, first.Counts)
	assert.Equal(t, "danger", first.OverallStatus)
	assert.Empty(t, first.Transitions, "first sweep is a baseline")

	// через 20 дней Alpha устаревает (>14 дней без обновлений)
	clock.advance(20 * 24 * time.Hour)
	second, err := runner.RunOnce(ctx)
	require.NoError(t, err)

	require.Len(t, second.Transitions, 1)
	transition := second.Transitions[0]
	assert.Equal(t, alpha.ID(), transition.ProjectID)
	assert.Equal(t, "good", transition.From)
	assert.Equal(t, "warning", transition.To)
	assert.Equal(t, []string{service.ReasonStaleMedium}, transition.ReasonKeys)

	// сбой брокера не ломает проход
	assert.Equal(t, []string{port.SubjectHealthChanged}, sinks.subjects)
	assert.Len(t, sinks.transitions, 1)
	require.Len(t, sinks.snapshots, 2)
	assert.Len(t, sinks.snapshots[1].Transitions, 1)
	assert.Equal(t, map[string]int{"good": 0, "warning": 1, "danger": 1}, sinks.counts)
	require.Len(t, sinks.rollups, 2)
	assert.Equal(t, dto.HealthRollup{Timestamp: second.GeneratedAt, Warning: 1, Danger: 1}, sinks.rollups[1])
	assert.Equal(t, []error{nil, nil}, sinks.jobs)

	snapshot := runner.Snapshot()
	assert.Empty(t, snapshot.LastError)
	require.NotNil(t, snapshot.LastSummary)
	assert.Len(t, snapshot.LastSummary.Assessments, 2)
}

func TestRunOnce_NewProjectIsNotATransition(t *testing.T) {
	store := memory.NewStore()
	clock := &movingClock{now: start}
	runner := newRunner(t, store.Projects(), clock, Sinks{})

	_, err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	seed(t, store.Projects(), entity.ProjectDetails{Name: "Fresh", Domain: "fresh.com"})
	summary, err := runner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Transitions)
	// без сигналов активности проект сразу danger
	assert.Equal(t, 1, summary.Counts["danger"])
}

type failingRepo struct{ repository.ProjectRepository }

func (failingRepo) FindAll(context.Context) ([]*entity.Project, error) {
	return nil, errors.New("db unavailable")
}

func TestRunOnce_FailureIsStored(t *testing.T) {
	sinks := &recordingSinks{}
	runner := newRunner(t, failingRepo{}, &movingClock{now: start}, sinks.asSinks())

	_, err := runner.RunOnce(context.Background())
	require.Error(t, err)

	snapshot := runner.Snapshot()
	assert.Contains(t, snapshot.LastError, "db unavailable")
	assert.False(t, snapshot.LastRunAt.IsZero())
	require.Len(t, sinks.jobs, 1)
	assert.Error(t, sinks.jobs[0])
	assert.Empty(t, sinks.snapshots)
}

func TestHandler(t *testing.T) {
	store := memory.NewStore()
	seed(t, store.Projects(), entity.ProjectDetails{Name: "Alpha", Domain: "alpha.com", LastContentUpdate: ptr(start)})
	runner := newRunner(t, store.Projects(), &movingClock{now: start}, Sinks{})

	router := chi.NewRouter()
	router.Route("/api/v1/health-sweep", NewHandler(runner).Routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/health-sweep/run", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary CycleSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Counts["good"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health-sweep/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "uptime")
	assert.Contains(t, body, "last_summary")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health-sweep/run", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
