package entity

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Project - сайт портфеля (Aggregate Root)
type Project struct {
	id                string
	name              string
	domain            string
	description       string
	githubRepo        string
	tags              []string
	adsenseStatus     valueobject.AdsenseStatus
	domainExpiry      *time.Time
	launchedAt        *time.Time
	lastGithubPush    *time.Time
	lastContentUpdate *time.Time
	lastManualUpdate  *time.Time
	notes             string
	createdAt         time.Time
	updatedAt         time.Time
}

// ProjectDetails - редактируемые пользователем поля
type ProjectDetails struct {
	Name              string
	Domain            string
	Description       string
	GithubRepo        string
	Tags              []string
	AdsenseStatus     valueobject.AdsenseStatus
	DomainExpiry      *time.Time
	LaunchedAt        *time.Time
	LastContentUpdate *time.Time
	Notes             string
}

// ProjectState - полный снимок проекта для хранилища и экспорта
type ProjectState struct {
	ID                string                    `json:"id"`
	Name              string                    `json:"name"`
	Domain            string                    `json:"domain"`
	Description       string                    `json:"description"`
	GithubRepo        string                    `json:"github_repo"`
	Tags              []string                  `json:"tags"`
	AdsenseStatus     valueobject.AdsenseStatus `json:"adsense_status"`
	DomainExpiry      *time.Time                `json:"domain_expiry"`
	LaunchedAt        *time.Time                `json:"launched_at"`
	LastGithubPush    *time.Time                `json:"last_github_push"`
	LastContentUpdate *time.Time                `json:"last_content_update"`
	LastManualUpdate  *time.Time                `json:"last_manual_update"`
	Notes             string                    `json:"notes"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// NewProject создает проект (Factory Method)
func NewProject(details ProjectDetails, now time.Time) (*Project, error) {
	p := &Project{
		id:        uuid.New().String(),
		createdAt: now,
	}
	if err := p.apply(details, now); err != nil {
		return nil, err
	}
	return p, nil
}

// ReconstructProject восстанавливает проект из хранилища (для Repository)
func ReconstructProject(state ProjectState) *Project {
	status := state.AdsenseStatus
	if status == "" {
		status = valueobject.AdsenseNone
	}
	return &Project{
		id:                state.ID,
		name:              state.Name,
		domain:            state.Domain,
		description:       state.Description,
		githubRepo:        state.GithubRepo,
		tags:              append([]string(nil), state.Tags...),
		adsenseStatus:     status,
		domainExpiry:      copyTime(state.DomainExpiry),
		launchedAt:        copyTime(state.LaunchedAt),
		lastGithubPush:    copyTime(state.LastGithubPush),
		lastContentUpdate: copyTime(state.LastContentUpdate),
		lastManualUpdate:  copyTime(state.LastManualUpdate),
		notes:             state.Notes,
		createdAt:         state.CreatedAt,
		updatedAt:         state.UpdatedAt,
	}
}

// Update применяет изменения пользователя
func (p *Project) Update(details ProjectDetails, now time.Time) error {
	return p.apply(details, now)
}

func (p *Project) apply(d ProjectDetails, now time.Time) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	if len(name) > 200 {
		return invalid("name", "must be at most 200 characters")
	}

	domain, err := NormalizeDomain(d.Domain)
	if err != nil {
		return err
	}

	repo := strings.Trim(strings.TrimSpace(d.GithubRepo), "/")
	repo = strings.TrimPrefix(repo, "https://github.com/")
	if repo != "" {
		if _, _, ok := SplitGithubRepo(repo); !ok {
			return invalid("github_repo", "must look like owner/name")
		}
	}

	status := d.AdsenseStatus
	if status == "" {
		status = valueobject.AdsenseNone
	}
	if err := status.Validate(); err != nil {
		return invalid("adsense_status", "%s", err.Error())
	}

	p.name = name
	p.domain = domain
	p.description = strings.TrimSpace(d.Description)
	p.githubRepo = repo
	p.tags = normalizeTags(d.Tags)
	p.adsenseStatus = status
	p.domainExpiry = copyTime(d.DomainExpiry)
	p.launchedAt = copyTime(d.LaunchedAt)
	p.lastContentUpdate = copyTime(d.LastContentUpdate)
	p.notes = d.Notes
	p.updatedAt = now
	return nil
}

func (p *Project) ID() string                               { return p.id }
func (p *Project) Name() string                             { return p.name }
func (p *Project) Domain() string                           { return p.domain }
func (p *Project) Description() string                      { return p.description }
func (p *Project) GithubRepo() string                       { return p.githubRepo }
func (p *Project) Tags() []string                           { return append([]string(nil), p.tags...) }
func (p *Project) AdsenseStatus() valueobject.AdsenseStatus { return p.adsenseStatus }
func (p *Project) DomainExpiry() *time.Time                 { return copyTime(p.domainExpiry) }
func (p *Project) LaunchedAt() *time.Time                   { return copyTime(p.launchedAt) }
func (p *Project) LastGithubPush() *time.Time               { return copyTime(p.lastGithubPush) }
func (p *Project) LastContentUpdate() *time.Time            { return copyTime(p.lastContentUpdate) }
func (p *Project) LastManualUpdate() *time.Time             { return copyTime(p.lastManualUpdate) }
func (p *Project) Notes() string                            { return p.notes }
func (p *Project) CreatedAt() time.Time                     { return p.createdAt }
func (p *Project) UpdatedAt() time.Time                     { return p.updatedAt }

// State возвращает копию всех полей
func (p *Project) State() ProjectState {
	return ProjectState{
		ID:                p.id,
		Name:              p.name,
		Domain:            p.domain,
		Description:       p.description,
		GithubRepo:        p.githubRepo,
		Tags:              p.Tags(),
		AdsenseStatus:     p.adsenseStatus,
		DomainExpiry:      p.DomainExpiry(),
		LaunchedAt:        p.LaunchedAt(),
		LastGithubPush:    p.LastGithubPush(),
		LastContentUpdate: p.LastContentUpdate(),
		LastManualUpdate:  p.LastManualUpdate(),
		Notes:             p.notes,
		CreatedAt:         p.createdAt,
		UpdatedAt:         p.updatedAt,
	}
}

// Domain Methods (бизнес-логика)

// EffectiveLastUpdate - самый поздний из трех сигналов активности.
// Нулевое время означает, что проект ни разу не обновлялся.
func (p *Project) EffectiveLastUpdate() time.Time {
	var latest time.Time
	for _, t := range []*time.Time{p.lastGithubPush, p.lastContentUpdate, p.lastManualUpdate} {
		if t != nil && t.After(latest) {
			latest = *t
		}
	}
	return latest
}

// TouchManual отмечает ручное обновление
func (p *Project) TouchManual(now time.Time) {
	p.lastManualUpdate = &now
	p.updatedAt = now
}

// RecordContentUpdate фиксирует публикацию контента
func (p *Project) RecordContentUpdate(at, now time.Time) {
	p.lastContentUpdate = &at
	p.updatedAt = now
}

// RecordGithubPush двигает отметку последнего push только вперед.
// Возвращает true, если значение изменилось.
func (p *Project) RecordGithubPush(at, now time.Time) bool {
	if p.lastGithubPush != nil && !at.After(*p.lastGithubPush) {
		return false
	}
	p.lastGithubPush = &at
	p.updatedAt = now
	return true
}

// GithubOwnerRepo разбирает githubRepo на owner и name
func (p *Project) GithubOwnerRepo() (string, string, bool) {
	return SplitGithubRepo(p.githubRepo)
}

// SplitGithubRepo разбирает "owner/name"
func SplitGithubRepo(repo string) (string, string, bool) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return owner, name, true
}

// NormalizeDomain приводит домен к виду example.com
func NormalizeDomain(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", invalid("domain", "is required")
	}
	if strings.Contains(value, "://") {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Host == "" {
			return "", invalid("domain", "is not a valid host")
		}
		value = parsed.Host
	}
	value = strings.TrimSuffix(strings.TrimPrefix(value, "www."), "/")
	if strings.ContainsAny(value, " /?#") || !strings.Contains(value, ".") {
		return "", invalid("domain", "is not a valid host")
	}
	return value, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		key := strings.ToLower(trimmed)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
