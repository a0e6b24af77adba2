package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Поддерживаемые сортировки списка
const (
	SortByName    = "name"
	SortByHealth  = "health"
	SortByExpiry  = "expiry"
	SortByUpdated = "updated"
)

// ListProjectsUseCase возвращает проекты с вычисленным здоровьем
type ListProjectsUseCase struct {
	repository repository.ProjectRepository
	presenter  *ProjectPresenter
	logger     *logger.Logger
}

func NewListProjectsUseCase(
	repository repository.ProjectRepository,
	presenter *ProjectPresenter,
	logger *logger.Logger,
) *ListProjectsUseCase {
	return &ListProjectsUseCase{
		repository: repository,
		presenter:  presenter,
		logger:     logger,
	}
}

// Execute применяет фильтр и сортировку
func (uc *ListProjectsUseCase) Execute(ctx context.Context, filter dto.ProjectFilter) ([]*dto.ProjectDTO, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	projects, err := uc.repository.FindAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch projects", err)
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	views := uc.presenter.PresentAll(projects, filter.Locale)

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	views = lo.Filter(views, func(v *dto.ProjectDTO, _ int) bool {
		if filter.Health != "" && v.Health.Status != filter.Health {
			return false
		}
		if filter.Adsense != "" && v.AdsenseStatus != filter.Adsense {
			return false
		}
		return query == "" || matchesQuery(v, query)
	})

	sortProjects(views, filter.Sort)
	return views, nil
}

// Summary - распределение по статусам плюс проблемные проекты
func (uc *ListProjectsUseCase) Summary(ctx context.Context, locale string) (*dto.HealthSummaryDTO, error) {
	views, err := uc.Execute(ctx, dto.ProjectFilter{Sort: SortByHealth, Locale: locale})
	if err != nil {
		return nil, err
	}

	summary := &dto.HealthSummaryDTO{
		Total:    len(views),
		Counts:   make(map[string]int, 3),
		Danger:   []*dto.ProjectDTO{},
		Warnings: []*dto.ProjectDTO{},
	}
	for _, status := range valueobject.AllHealthStatuses() {
		summary.Counts[status.String()] = 0
	}
	for _, v := range views {
		summary.Counts[v.Health.Status]++
		switch v.Health.Status {
		case valueobject.HealthDanger.String():
			summary.Danger = append(summary.Danger, v)
		case valueobject.HealthWarning.String():
			summary.Warnings = append(summary.Warnings, v)
		}
	}
	return summary, nil
}

func validateFilter(filter dto.ProjectFilter) error {
	if filter.Health != "" {
		if _, err := valueobject.ParseHealthStatus(filter.Health); err != nil {
			return &entity.ValidationError{Field: "health", Message: err.Error()}
		}
	}
	if filter.Adsense != "" {
		if _, err := valueobject.ParseAdsenseStatus(filter.Adsense); err != nil {
			return &entity.ValidationError{Field: "adsense", Message: err.Error()}
		}
	}
	switch filter.Sort {
	case "", SortByName, SortByHealth, SortByExpiry, SortByUpdated:
		return nil
	default:
		return &entity.ValidationError{Field: "sort", Message: fmt.Sprintf("unsupported sort %q", filter.Sort)}
	}
}

func matchesQuery(v *dto.ProjectDTO, query string) bool {
	if strings.Contains(strings.ToLower(v.Name), query) || strings.Contains(strings.ToLower(v.Domain), query) {
		return true
	}
	return lo.ContainsBy(v.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

// sortProjects - стабильная сортировка; при равенстве порядок по имени
func sortProjects(views []*dto.ProjectDTO, by string) {
	byName := func(a, b *dto.ProjectDTO) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}

	var less func(a, b *dto.ProjectDTO) bool
	switch by {
	case SortByName:
		less = byName
	case SortByExpiry:
		less = func(a, b *dto.ProjectDTO) bool {
			switch {
			case a.DomainExpiry == nil && b.DomainExpiry == nil:
				return byName(a, b)
			case a.DomainExpiry == nil:
				return false
			case b.DomainExpiry == nil:
				return true
			case !a.DomainExpiry.Equal(*b.DomainExpiry):
				return a.DomainExpiry.Before(*b.DomainExpiry)
			}
			return byName(a, b)
		}
	case SortByUpdated:
		less = func(a, b *dto.ProjectDTO) bool {
			if a.Health.DaysSinceUpdate != b.Health.DaysSinceUpdate {
				return a.Health.DaysSinceUpdate > b.Health.DaysSinceUpdate
			}
			return byName(a, b)
		}
	default:
		less = func(a, b *dto.ProjectDTO) bool {
			sa, sb := severity(a), severity(b)
			if sa != sb {
				return sa > sb
			}
			return byName(a, b)
		}
	}

	sort.SliceStable(views, func(i, j int) bool { return less(views[i], views[j]) })
}

func severity(v *dto.ProjectDTO) int {
	return valueobject.HealthStatus(v.Health.Status).Severity()
}
