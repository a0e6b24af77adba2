package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// AnalyticsRepositories - источники данных для сводки
type AnalyticsRepositories struct {
	Projects  repository.ProjectRepository
	Backlinks repository.BacklinkRepository
	Expenses  repository.ExpenseRepository
	Tools     repository.ToolRepository
	Pushes    repository.GithubPushRepository
}

// GetAnalyticsUseCase возвращает сводку по портфелю с кешированием
type GetAnalyticsUseCase struct {
	repos      AnalyticsRepositories
	aggregator *service.AnalyticsAggregator
	clock      service.Clock
	cache      port.Cache
	logger     *logger.Logger
}

func NewGetAnalyticsUseCase(
	repos AnalyticsRepositories,
	aggregator *service.AnalyticsAggregator,
	clock service.Clock,
	cache port.Cache,
	logger *logger.Logger,
) *GetAnalyticsUseCase {
	return &GetAnalyticsUseCase{
		repos:      repos,
		aggregator: aggregator,
		clock:      clock,
		cache:      cache,
		logger:     logger,
	}
}

// Execute выполняет получение сводки; кеш сбрасывается любой записью
func (uc *GetAnalyticsUseCase) Execute(ctx context.Context) (*service.AnalyticsReport, error) {
	// Если кеш не настроен, считаем напрямую
	if uc.cache == nil {
		return uc.build(ctx)
	}

	var cached service.AnalyticsReport
	found, err := uc.cache.Get(ctx, AnalyticsCacheKey, &cached)
	if err != nil {
		uc.logger.Warn("Failed to read analytics cache", "error", err)
	}
	if found {
		uc.logger.Debug("Cache hit for analytics")
		return &cached, nil
	}

	report, err := uc.build(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, AnalyticsCacheKey, report); err != nil {
		uc.logger.Warn("Failed to cache analytics", "error", err)
	}
	return report, nil
}

func (uc *GetAnalyticsUseCase) build(ctx context.Context) (*service.AnalyticsReport, error) {
	var in service.AnalyticsInput
	since := uc.clock.Now().AddDate(0, 0, -service.PushWindowDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Projects, err = uc.repos.Projects.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Backlinks, err = uc.repos.Backlinks.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Expenses, err = uc.repos.Expenses.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Tools, err = uc.repos.Tools.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Pushes, err = uc.repos.Pushes.FindSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Error("Failed to load analytics data", err)
		return nil, fmt.Errorf("failed to load analytics data: %w", err)
	}

	return uc.aggregator.Build(in), nil
}
