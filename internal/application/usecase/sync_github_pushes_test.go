package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
)

type mockGitHubClient struct {
	mu      sync.Mutex
	commits map[string][]port.Commit
	errs    map[string]error
	calls   []string
	perPage int
}

func (m *mockGitHubClient) LatestCommits(_ context.Context, owner, repo string, perPage int) ([]port.Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	full := owner + "/" + repo
	m.calls = append(m.calls, full)
	m.perPage = perPage
	if err := m.errs[full]; err != nil {
		return nil, err
	}
	return m.commits[full], nil
}

type recordedJob struct {
	job string
	err error
}

type mockJobRecorder struct {
	mu   sync.Mutex
	jobs []recordedJob
}

func (m *mockJobRecorder) ObserveJob(job string, _ float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, recordedJob{job: job, err: err})
}

func TestSyncGithubPushes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createProject(t, dto.ProjectInput{Name: "Acme", Domain: "acme.com", GithubRepo: "acme/site", LastContentUpdate: daysAgo(40)})
	f.createProject(t, dto.ProjectInput{Name: "Broken", Domain: "broken.com", GithubRepo: "https://github.com/acme/broken", LastContentUpdate: daysAgo(1)})
	f.createProject(t, dto.ProjectInput{Name: "Offline", Domain: "offline.com", LastContentUpdate: daysAgo(1)})

	newest := testNow.Add(-2 * time.Hour)
	client := &mockGitHubClient{
		commits: map[string][]port.Commit{
			"acme/site": {
				{SHA: "c2", Message: "Add post\n\nbody", Author: "ann", Committed: newest},
				{SHA: "c1", Message: "Init", Author: "ann", Committed: testNow.AddDate(0, 0, -3)},
				{SHA: "", Message: "ignored"},
			},
		},
		errs: map[string]error{"acme/broken": errors.New("404 Not Found")},
	}
	jobs := &mockJobRecorder{}

	uc := NewSyncGithubPushesUseCase(f.store.Projects(), f.store.GithubPushes(), client, f.clock, f.notifier, jobs,
		SyncGithubPushesConfig{CommitsPerPage: 10, Concurrency: 2}, f.log)

	summary, err := uc.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ProjectsChecked)
	assert.Equal(t, 2, summary.PushesStored)
	assert.Equal(t, 1, summary.ProjectsUpdated)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "acme/broken", summary.Failures[0].Repo)
	assert.Contains(t, summary.Failures[0].Error, "404")
	assert.Equal(t, 10, client.perPage)
	assert.ElementsMatch(t, []string{"acme/site", "acme/broken"}, client.calls)

	view, err := f.projects.Get(ctx, acme.ID, "en")
	require.NoError(t, err)
	require.NotNil(t, view.LastGithubPush)
	assert.True(t, view.LastGithubPush.Equal(newest))
	assert.Equal(t, "good", view.Health.Status)

	pushes, err := f.store.GithubPushes().FindByProject(ctx, acme.ID, 0)
	require.NoError(t, err)
	require.Len(t, pushes, 2)
	assert.Equal(t, "Add post", pushes[0].Message)

	assert.Contains(t, f.publisher.subjects(), port.SubjectGithubSynced)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, JobGithubSync, jobs.jobs[0].job)
	assert.NoError(t, jobs.jobs[0].err)

	// повторный запуск ничего не добавляет
	again, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.PushesStored)
	assert.Zero(t, again.ProjectsUpdated)
}
