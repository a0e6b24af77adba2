package repository

import (
	"context"
	"errors"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

var (
	// ErrNotFound возвращается, когда запись отсутствует
	ErrNotFound = errors.New("record not found")
	// ErrConflict - нарушение уникальности
	ErrConflict = errors.New("record already exists")
)

// ProjectRepository определяет интерфейс хранения проектов
type ProjectRepository interface {
	Save(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.Project, error)
	FindAll(ctx context.Context) ([]*entity.Project, error)
}

// RecordRepository - CRUD для простых сущностей справочников
type RecordRepository[T entity.Record] interface {
	Save(ctx context.Context, record T) error
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
}

type (
	BacklinkRepository = RecordRepository[*entity.Backlink]
	ResourceRepository = RecordRepository[*entity.Resource]
	ExpenseRepository  = RecordRepository[*entity.Expense]
	ToolRepository     = RecordRepository[*entity.Tool]
)

// PresetRepository хранит значения категорий
type PresetRepository interface {
	// Save возвращает ErrConflict, если значение уже есть (без учета регистра)
	Save(ctx context.Context, preset *entity.Preset) error
	Delete(ctx context.Context, id string) error
	FindByType(ctx context.Context, presetType valueobject.PresetType) ([]*entity.Preset, error)
	FindAll(ctx context.Context) ([]*entity.Preset, error)
}

// GithubPushRepository хранит историю коммитов
type GithubPushRepository interface {
	// SaveNew пропускает уже известные (projectId, sha) и возвращает число новых записей
	SaveNew(ctx context.Context, pushes []*entity.GithubPush) (int, error)
	FindSince(ctx context.Context, since time.Time) ([]*entity.GithubPush, error)
	FindByProject(ctx context.Context, projectID string, limit int) ([]*entity.GithubPush, error)
}

// Snapshot - полное содержимое базы для экспорта и импорта
type Snapshot struct {
	Projects     []*entity.Project
	Backlinks    []*entity.Backlink
	Resources    []*entity.Resource
	Expenses     []*entity.Expense
	Tools        []*entity.Tool
	Presets      []*entity.Preset
	GithubPushes []*entity.GithubPush
}

// ImportCounts - число вставленных строк по таблицам
type ImportCounts struct {
	Projects     int `json:"projects"`
	Backlinks    int `json:"backlinks"`
	Resources    int `json:"resources"`
	Expenses     int `json:"expenses"`
	Tools        int `json:"tools"`
	Presets      int `json:"presets"`
	GithubPushes int `json:"github_pushes"`
}

// SnapshotRepository выгружает и атомарно заменяет все данные
type SnapshotRepository interface {
	Export(ctx context.Context) (*Snapshot, error)
	// Replace удаляет все строки и вставляет снимок в одной транзакции
	Replace(ctx context.Context, snapshot *Snapshot) (ImportCounts, error)
}

// Store - набор репозиториев одного хранилища (postgres или память)
type Store interface {
	Projects() ProjectRepository
	Backlinks() BacklinkRepository
	Resources() ResourceRepository
	Expenses() ExpenseRepository
	Tools() ToolRepository
	Presets() PresetRepository
	GithubPushes() GithubPushRepository
	Snapshots() SnapshotRepository
	Ping(ctx context.Context) error
	Close() error
}
