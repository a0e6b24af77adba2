package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// JobGithubSync - имя задачи в метриках
const JobGithubSync = "github_sync"

type SyncGithubPushesConfig struct {
	CommitsPerPage int
	Concurrency    int
}

// SyncGithubPushesUseCase подтягивает последние коммиты репозиториев проектов
type SyncGithubPushesUseCase struct {
	projects repository.ProjectRepository
	pushes   repository.GithubPushRepository
	client   port.GitHubClient
	clock    service.Clock
	notifier *ChangeNotifier
	jobs     port.JobRecorder
	config   SyncGithubPushesConfig
	logger   *logger.Logger
}

func NewSyncGithubPushesUseCase(
	projects repository.ProjectRepository,
	pushes repository.GithubPushRepository,
	client port.GitHubClient,
	clock service.Clock,
	notifier *ChangeNotifier,
	jobs port.JobRecorder,
	config SyncGithubPushesConfig,
	logger *logger.Logger,
) *SyncGithubPushesUseCase {
	if config.CommitsPerPage <= 0 {
		config.CommitsPerPage = 20
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	return &SyncGithubPushesUseCase{
		projects: projects,
		pushes:   pushes,
		client:   client,
		clock:    clock,
		notifier: notifier,
		jobs:     jobs,
		config:   config,
		logger:   logger,
	}
}

// Execute синхронизирует все проекты с githubRepo.
// Ошибка одного проекта попадает в Failures и не останавливает остальные.
func (uc *SyncGithubPushesUseCase) Execute(ctx context.Context) (summary *dto.SyncSummary, err error) {
	started := time.Now()
	defer func() {
		if uc.jobs != nil {
			uc.jobs.ObserveJob(JobGithubSync, time.Since(started).Seconds(), err)
		}
	}()

	all, err := uc.projects.FindAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch projects for sync", err)
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	linked := lo.Filter(all, func(p *entity.Project, _ int) bool {
		_, _, ok := p.GithubOwnerRepo()
		return ok
	})

	summary = &dto.SyncSummary{
		StartedAt:       uc.clock.Now(),
		ProjectsChecked: len(linked),
		Failures:        []dto.SyncFailure{},
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(uc.config.Concurrency)

	for _, project := range linked {
		project := project
		g.Go(func() error {
			stored, updated, syncErr := uc.syncProject(ctx, project)

			mu.Lock()
			defer mu.Unlock()
			if syncErr != nil {
				uc.logger.Warn("GitHub sync failed for project",
					"project_id", project.ID(),
					"repo", project.GithubRepo(),
					"error", syncErr,
				)
				summary.Failures = append(summary.Failures, dto.SyncFailure{
					ProjectID: project.ID(),
					Repo:      project.GithubRepo(),
					Error:     syncErr.Error(),
				})
				return nil
			}
			summary.PushesStored += stored
			if updated {
				summary.ProjectsUpdated++
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Repo < summary.Failures[j].Repo
	})
	summary.FinishedAt = uc.clock.Now()

	uc.logger.Info("GitHub sync finished",
		"checked", summary.ProjectsChecked,
		"stored", summary.PushesStored,
		"failures", len(summary.Failures),
	)

	if summary.PushesStored > 0 || summary.ProjectsUpdated > 0 {
		uc.notifier.Changed(ctx, port.SubjectGithubSynced, summary)
	}
	return summary, nil
}

func (uc *SyncGithubPushesUseCase) syncProject(ctx context.Context, project *entity.Project) (int, bool, error) {
	owner, repo, _ := project.GithubOwnerRepo()

	commits, err := uc.client.LatestCommits(ctx, owner, repo, uc.config.CommitsPerPage)
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch commits: %w", err)
	}
	if len(commits) == 0 {
		return 0, false, nil
	}

	pushes := make([]*entity.GithubPush, 0, len(commits))
	var newest time.Time
	for _, c := range commits {
		if c.SHA == "" || c.Committed.IsZero() {
			continue
		}
		if c.Committed.After(newest) {
			newest = c.Committed
		}
		pushes = append(pushes, &entity.GithubPush{
			ID:        uuid.New().String(),
			ProjectID: project.ID(),
			SHA:       c.SHA,
			Message:   firstLine(c.Message),
			Author:    c.Author,
			URL:       c.URL,
			PushedAt:  c.Committed,
		})
	}

	stored, err := uc.pushes.SaveNew(ctx, pushes)
	if err != nil {
		return 0, false, fmt.Errorf("failed to store pushes: %w", err)
	}

	if newest.IsZero() || !project.RecordGithubPush(newest, uc.clock.Now()) {
		return stored, false, nil
	}
	if err := uc.projects.Update(ctx, project); err != nil {
		return stored, false, fmt.Errorf("failed to update last push: %w", err)
	}
	return stored, true, nil
}

func firstLine(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}
	return message
}
