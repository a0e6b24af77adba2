package dto

import (
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
)

// ProjectDTO представляет проект для передачи между слоями
type ProjectDTO struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Domain            string     `json:"domain"`
	Description       string     `json:"description"`
	GithubRepo        string     `json:"github_repo"`
	Tags              []string   `json:"tags"`
	AdsenseStatus     string     `json:"adsense_status"`
	DomainExpiry      *time.Time `json:"domain_expiry"`
	LaunchedAt        *time.Time `json:"launched_at"`
	LastGithubPush    *time.Time `json:"last_github_push"`
	LastContentUpdate *time.Time `json:"last_content_update"`
	LastManualUpdate  *time.Time `json:"last_manual_update"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	// Computed fields
	Health  HealthDTO  `json:"health"`
	Display DisplayDTO `json:"display"`
}

// HealthDTO - статус здоровья и причины
type HealthDTO struct {
	Status          string           `json:"status"`
	Reasons         []string         `json:"reasons"`
	ReasonKeys      []service.Reason `json:"reason_keys"`
	DaysSinceUpdate int              `json:"days_since_update"`
	DaysUntilExpiry *int             `json:"days_until_expiry"`
}

// DisplayDTO - готовые локализованные подписи
type DisplayDTO struct {
	LastUpdate     string             `json:"last_update"`
	DomainExpiry   service.ExpiryText `json:"domain_expiry"`
	LaunchDuration string             `json:"launch_duration"`
}

// NewProjectDTO заполняет поля сущности; health/display заполняет presenter
func NewProjectDTO(p *entity.Project) *ProjectDTO {
	return &ProjectDTO{
		ID:                p.ID(),
		Name:              p.Name(),
		Domain:            p.Domain(),
		Description:       p.Description(),
		GithubRepo:        p.GithubRepo(),
		Tags:              p.Tags(),
		AdsenseStatus:     p.AdsenseStatus().String(),
		DomainExpiry:      p.DomainExpiry(),
		LaunchedAt:        p.LaunchedAt(),
		LastGithubPush:    p.LastGithubPush(),
		LastContentUpdate: p.LastContentUpdate(),
		LastManualUpdate:  p.LastManualUpdate(),
		Notes:             p.Notes(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

// ProjectInput - данные формы проекта
type ProjectInput struct {
	Name              string     `json:"name" validate:"required,max=200"`
	Domain            string     `json:"domain" validate:"required,max=253"`
	Description       string     `json:"description" validate:"max=2000"`
	GithubRepo        string     `json:"github_repo" validate:"max=200"`
	Tags              []string   `json:"tags" validate:"max=20,dive,max=50"`
	AdsenseStatus     string     `json:"adsense_status" validate:"omitempty,oneof=none reviewing rejected active limited banned"`
	DomainExpiry      *time.Time `json:"domain_expiry"`
	LaunchedAt        *time.Time `json:"launched_at"`
	LastContentUpdate *time.Time `json:"last_content_update"`
	Notes             string     `json:"notes" validate:"max=5000"`
}

// ProjectFilter - параметры списка проектов
type ProjectFilter struct {
	Health  string `json:"health"`
	Adsense string `json:"adsense"`
	Query   string `json:"q"`
	Sort    string `json:"sort"`
	Locale  string `json:"lang"`
}

// HealthSummaryDTO - распределение портфеля по статусам
type HealthSummaryDTO struct {
	Total    int            `json:"total"`
	Counts   map[string]int `json:"counts"`
	Danger   []*ProjectDTO  `json:"danger"`
	Warnings []*ProjectDTO  `json:"warnings"`
}
