package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// ProjectChangedEvent публикуется после изменения проекта
type ProjectChangedEvent struct {
	ProjectID string    `json:"project_id"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}

// ManageProjectsUseCase - создание, изменение и удаление проектов
type ManageProjectsUseCase struct {
	repository repository.ProjectRepository
	presenter  *ProjectPresenter
	clock      service.Clock
	notifier   *ChangeNotifier
	logger     *logger.Logger
}

func NewManageProjectsUseCase(
	repository repository.ProjectRepository,
	presenter *ProjectPresenter,
	clock service.Clock,
	notifier *ChangeNotifier,
	logger *logger.Logger,
) *ManageProjectsUseCase {
	return &ManageProjectsUseCase{
		repository: repository,
		presenter:  presenter,
		clock:      clock,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *ManageProjectsUseCase) Get(ctx context.Context, id, locale string) (*dto.ProjectDTO, error) {
	project, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}
	return uc.presenter.Present(project, locale), nil
}

func (uc *ManageProjectsUseCase) Create(ctx context.Context, input dto.ProjectInput, locale string) (*dto.ProjectDTO, error) {
	details, err := toProjectDetails(input)
	if err != nil {
		return nil, err
	}

	project, err := entity.NewProject(details, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.repository.Save(ctx, project); err != nil {
		uc.logger.Error("Failed to save project", err, "domain", project.Domain())
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	uc.logger.Info("Project created", "id", project.ID(), "domain", project.Domain())
	uc.changed(ctx, project.ID(), "created")
	return uc.presenter.Present(project, locale), nil
}

func (uc *ManageProjectsUseCase) Update(ctx context.Context, id string, input dto.ProjectInput, locale string) (*dto.ProjectDTO, error) {
	details, err := toProjectDetails(input)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, id, "updated", locale, func(p *entity.Project, now time.Time) error {
		return p.Update(details, now)
	})
}

// Delete удаляет проект; бэклинки и коммиты удаляются каскадно
func (uc *ManageProjectsUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	uc.logger.Info("Project deleted", "id", id)
	uc.changed(ctx, id, "deleted")
	return nil
}

// Touch отмечает ручное обновление "сейчас"
func (uc *ManageProjectsUseCase) Touch(ctx context.Context, id, locale string) (*dto.ProjectDTO, error) {
	return uc.mutate(ctx, id, "touched", locale, func(p *entity.Project, now time.Time) error {
		p.TouchManual(now)
		return nil
	})
}

// RecordContentUpdate фиксирует публикацию контента; нулевое at - "сейчас"
func (uc *ManageProjectsUseCase) RecordContentUpdate(ctx context.Context, id string, at time.Time, locale string) (*dto.ProjectDTO, error) {
	return uc.mutate(ctx, id, "content_updated", locale, func(p *entity.Project, now time.Time) error {
		if at.IsZero() {
			at = now
		}
		p.RecordContentUpdate(at, now)
		return nil
	})
}

func (uc *ManageProjectsUseCase) mutate(
	ctx context.Context,
	id, action, locale string,
	apply func(p *entity.Project, now time.Time) error,
) (*dto.ProjectDTO, error) {
	project, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}
	if err := apply(project, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.repository.Update(ctx, project); err != nil {
		uc.logger.Error("Failed to update project", err, "id", id)
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}

	uc.changed(ctx, id, action)
	return uc.presenter.Present(project, locale), nil
}

func (uc *ManageProjectsUseCase) changed(ctx context.Context, id, action string) {
	uc.notifier.Changed(ctx, port.SubjectProjectChanged, ProjectChangedEvent{
		ProjectID: id,
		Action:    action,
		At:        uc.clock.Now(),
	})
}

func toProjectDetails(input dto.ProjectInput) (entity.ProjectDetails, error) {
	adsense, err := valueobject.ParseAdsenseStatus(input.AdsenseStatus)
	if err != nil {
		return entity.ProjectDetails{}, &entity.ValidationError{Field: "adsense_status", Message: err.Error()}
	}
	return entity.ProjectDetails{
		Name:              input.Name,
		Domain:            input.Domain,
		Description:       input.Description,
		GithubRepo:        input.GithubRepo,
		Tags:              input.Tags,
		AdsenseStatus:     adsense,
		DomainExpiry:      input.DomainExpiry,
		LaunchedAt:        input.LaunchedAt,
		LastContentUpdate: input.LastContentUpdate,
		Notes:             input.Notes,
	}, nil
}
