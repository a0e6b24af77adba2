package healthsweep

import (
	"context"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Service классифицирует весь портфель за один проход
type Service struct {
	projects   repository.ProjectRepository
	classifier *service.HealthClassifier
	clock      service.Clock
}

func NewService(projects repository.ProjectRepository, classifier *service.HealthClassifier, clock service.Clock) *Service {
	return &Service{projects: projects, classifier: classifier, clock: clock}
}

func (s *Service) EvaluateAll(ctx context.Context) (*CycleSummary, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	summary := &CycleSummary{
		GeneratedAt: s.clock.Now().UTC(),
		Counts:      make(map[string]int, 3),
		Assessments: make([]ProjectAssessment, 0, len(projects)),
		Transitions: []*dto.HealthTransitionDTO{},
	}
	for _, status := range valueobject.AllHealthStatuses() {
		summary.Counts[status.String()] = 0
	}

	overall := valueobject.HealthGood
	for _, p := range projects {
		assessment := s.classifier.Assess(p)

		keys := make([]string, 0, len(assessment.Reasons))
		for _, reason := range assessment.Reasons {
			keys = append(keys, reason.Key)
		}

		summary.Assessments = append(summary.Assessments, ProjectAssessment{
			ProjectID:       p.ID(),
			Name:            p.Name(),
			Domain:          p.Domain(),
			Status:          assessment.Status.String(),
			ReasonKeys:      keys,
			DaysSinceUpdate: assessment.DaysSinceUpdate,
			DaysUntilExpiry: assessment.DaysUntilExpiry,
		})
		summary.Counts[assessment.Status.String()]++
		overall = overall.Worse(assessment.Status)
	}

	summary.ProjectsTotal = len(projects)
	summary.OverallStatus = overall.String()
	return summary, nil
}
