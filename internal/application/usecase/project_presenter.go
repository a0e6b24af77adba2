package usecase

import (
	"time"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
)

// ProjectPresenter собирает ProjectDTO: поля сущности + здоровье + подписи на нужном языке.
// Все вычисления выполняются заново на каждый запрос.
type ProjectPresenter struct {
	classifier *service.HealthClassifier
	formatter  *service.TimeFormatter
	localizer  port.Localizer
}

func NewProjectPresenter(
	classifier *service.HealthClassifier,
	formatter *service.TimeFormatter,
	localizer port.Localizer,
) *ProjectPresenter {
	return &ProjectPresenter{
		classifier: classifier,
		formatter:  formatter,
		localizer:  localizer,
	}
}

// Present конвертирует проект в DTO для локали locale
func (p *ProjectPresenter) Present(project *entity.Project, locale string) *dto.ProjectDTO {
	lookup := p.localizer.Lookup(locale)
	assessment := p.classifier.Assess(project)

	reasons := make([]string, 0, len(assessment.Reasons))
	for _, r := range assessment.Reasons {
		reasons = append(reasons, lookup(r.Key, r.Params))
	}

	view := dto.NewProjectDTO(project)
	view.Health = dto.HealthDTO{
		Status:          assessment.Status.String(),
		Reasons:         reasons,
		ReasonKeys:      assessment.Reasons,
		DaysSinceUpdate: assessment.DaysSinceUpdate,
		DaysUntilExpiry: assessment.DaysUntilExpiry,
	}
	view.Display = dto.DisplayDTO{
		LastUpdate:     p.formatter.RelativeTime(lastUpdateOf(project), lookup),
		DomainExpiry:   p.formatter.DomainExpiryText(project.DomainExpiry(), lookup),
		LaunchDuration: p.formatter.LaunchDuration(project.LaunchedAt(), lookup),
	}
	return view
}

// PresentAll конвертирует слайс проектов
func (p *ProjectPresenter) PresentAll(projects []*entity.Project, locale string) []*dto.ProjectDTO {
	views := make([]*dto.ProjectDTO, len(projects))
	for i, project := range projects {
		views[i] = p.Present(project, locale)
	}
	return views
}

// lastUpdateOf возвращает nil, если проект ни разу не обновлялся
func lastUpdateOf(project *entity.Project) *time.Time {
	last := project.EffectiveLastUpdate()
	if last.IsZero() {
		return nil
	}
	return &last
}
