package postgres

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

const projectColumns = `id, name, domain, description, github_repo, tags, adsense_status,
	domain_expiry, launched_at, last_github_push, last_content_update, last_manual_update,
	notes, created_at, updated_at`

// projectArgs - значения в порядке projectColumns
func projectArgs(p *entity.Project) []interface{} {
	s := p.State()
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return []interface{}{
		s.ID,
		s.Name,
		s.Domain,
		s.Description,
		s.GithubRepo,
		pq.Array(tags),
		string(s.AdsenseStatus),
		nullTime(s.DomainExpiry),
		nullTime(s.LaunchedAt),
		nullTime(s.LastGithubPush),
		nullTime(s.LastContentUpdate),
		nullTime(s.LastManualUpdate),
		s.Notes,
		s.CreatedAt,
		s.UpdatedAt,
	}
}

// scanProject конвертирует строку БД в Domain Entity
func scanProject(row rowScanner) (*entity.Project, error) {
	var (
		s        entity.ProjectState
		adsense  string
		tags     []string
		expiry   sql.NullTime
		launched sql.NullTime
		push     sql.NullTime
		content  sql.NullTime
		manual   sql.NullTime
	)
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Domain,
		&s.Description,
		&s.GithubRepo,
		pq.Array(&tags),
		&adsense,
		&expiry,
		&launched,
		&push,
		&content,
		&manual,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Tags = tags
	s.AdsenseStatus = valueobject.AdsenseStatus(adsense)
	s.DomainExpiry = timePtr(expiry)
	s.LaunchedAt = timePtr(launched)
	s.LastGithubPush = timePtr(push)
	s.LastContentUpdate = timePtr(content)
	s.LastManualUpdate = timePtr(manual)
	return entity.ReconstructProject(s), nil
}

const presetColumns = `id, type, value, created_at`

func scanPreset(row rowScanner) (*entity.Preset, error) {
	var (
		p         entity.Preset
		presetTyp string
	)
	if err := row.Scan(&p.ID, &presetTyp, &p.Value, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Type = valueobject.PresetType(presetTyp)
	return &p, nil
}

const pushColumns = `id, project_id, sha, message, author, url, pushed_at`

func pushArgs(p *entity.GithubPush) []interface{} {
	return []interface{}{p.ID, p.ProjectID, p.SHA, p.Message, p.Author, p.URL, p.PushedAt}
}

func scanPush(row rowScanner) (*entity.GithubPush, error) {
	var p entity.GithubPush
	if err := row.Scan(&p.ID, &p.ProjectID, &p.SHA, &p.Message, &p.Author, &p.URL, &p.PushedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
