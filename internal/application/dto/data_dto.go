package dto

import (
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

// ExportFormatVersion - версия формата выгрузки
const ExportFormatVersion = 1

// ExportDocument - полная выгрузка данных в JSON
type ExportDocument struct {
	Version      int                   `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	Projects     []entity.ProjectState `json:"projects"`
	Backlinks    []*entity.Backlink    `json:"backlinks"`
	Resources    []*entity.Resource    `json:"resources"`
	Expenses     []*entity.Expense     `json:"expenses"`
	Tools        []*entity.Tool        `json:"tools"`
	Presets      []*entity.Preset      `json:"presets"`
	GithubPushes []*entity.GithubPush  `json:"github_pushes"`
}

// ExportResult - документ и, если включен S3, ключ копии
type ExportResult struct {
	Document  *ExportDocument `json:"document"`
	BackupKey string          `json:"backup_key,omitempty"`
	BackupURL string          `json:"backup_url,omitempty"`
}

// ImportResult - итог импорта
type ImportResult struct {
	Counts     repository.ImportCounts `json:"counts"`
	ImportedAt time.Time               `json:"imported_at"`
}

// SyncSummary - итог синхронизации GitHub
type SyncSummary struct {
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	ProjectsChecked int           `json:"projects_checked"`
	ProjectsUpdated int           `json:"projects_updated"`
	PushesStored    int           `json:"pushes_stored"`
	Failures        []SyncFailure `json:"failures"`
}

// SyncFailure - ошибка по одному проекту; не прерывает остальные
type SyncFailure struct {
	ProjectID string `json:"project_id"`
	Repo      string `json:"repo"`
	Error     string `json:"error"`
}
