package usecase

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// DataImportedEvent публикуется после замены данных
type DataImportedEvent struct {
	Counts repository.ImportCounts `json:"counts"`
}

// ImportDataUseCase заменяет все данные содержимым выгрузки
type ImportDataUseCase struct {
	repository repository.SnapshotRepository
	clock      service.Clock
	notifier   *ChangeNotifier
	logger     *logger.Logger
}

func NewImportDataUseCase(
	repository repository.SnapshotRepository,
	clock service.Clock,
	notifier *ChangeNotifier,
	logger *logger.Logger,
) *ImportDataUseCase {
	return &ImportDataUseCase{
		repository: repository,
		clock:      clock,
		notifier:   notifier,
		logger:     logger,
	}
}

// Execute проверяет документ целиком до любой записи; замена атомарна
func (uc *ImportDataUseCase) Execute(ctx context.Context, doc *dto.ExportDocument) (*dto.ImportResult, error) {
	snapshot, err := SnapshotFromDocument(doc)
	if err != nil {
		return nil, err
	}

	counts, err := uc.repository.Replace(ctx, snapshot)
	if err != nil {
		uc.logger.Error("Failed to import data", err)
		return nil, fmt.Errorf("failed to import data: %w", err)
	}

	uc.logger.Info("Data imported",
		"projects", counts.Projects,
		"backlinks", counts.Backlinks,
		"github_pushes", counts.GithubPushes,
	)
	uc.notifier.Changed(ctx, port.SubjectDataImported, DataImportedEvent{Counts: counts})

	return &dto.ImportResult{Counts: counts, ImportedAt: uc.clock.Now()}, nil
}

// SnapshotFromDocument проверяет версию, поля и ссылки на проекты
func SnapshotFromDocument(doc *dto.ExportDocument) (*repository.Snapshot, error) {
	if doc == nil {
		return nil, &entity.ValidationError{Field: "document", Message: "is required"}
	}
	if doc.Version != dto.ExportFormatVersion {
		return nil, &entity.ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d, expected %d", doc.Version, dto.ExportFormatVersion),
		}
	}

	snapshot := &repository.Snapshot{}
	projectIDs := make(map[string]struct{}, len(doc.Projects))

	for i, state := range doc.Projects {
		if strings.TrimSpace(state.ID) == "" {
			return nil, importError("projects", i, "id is required")
		}
		if _, dup := projectIDs[state.ID]; dup {
			return nil, importError("projects", i, "duplicate id "+state.ID)
		}
		project := entity.ReconstructProject(state)
		if err := validateImportedProject(project); err != nil {
			return nil, importError("projects", i, err.Error())
		}
		projectIDs[state.ID] = struct{}{}
		snapshot.Projects = append(snapshot.Projects, project)
	}

	knownProject := func(id string, optional bool) bool {
		if id == "" {
			return optional
		}
		_, ok := projectIDs[id]
		return ok
	}

	var err error
	if snapshot.Backlinks, err = importRecords("backlinks", doc.Backlinks, func(b *entity.Backlink) bool {
		return knownProject(b.ProjectID, false)
	}); err != nil {
		return nil, err
	}
	if snapshot.Resources, err = importRecords("resources", doc.Resources, nil); err != nil {
		return nil, err
	}
	if snapshot.Expenses, err = importRecords("expenses", doc.Expenses, func(e *entity.Expense) bool {
		return knownProject(e.ProjectID, true)
	}); err != nil {
		return nil, err
	}
	if snapshot.Tools, err = importRecords("tools", doc.Tools, nil); err != nil {
		return nil, err
	}

	seenPresets := make(map[string]struct{}, len(doc.Presets))
	for i, preset := range doc.Presets {
		if preset == nil {
			return nil, importError("presets", i, "is null")
		}
		checked, err := entity.NewPreset(preset.Type, service.NormalizePresetValue(preset.Value), preset.CreatedAt)
		if err != nil {
			return nil, importError("presets", i, err.Error())
		}
		key := string(checked.Type) + "|" + service.PresetKey(checked.Value)
		if _, dup := seenPresets[key]; dup {
			continue
		}
		seenPresets[key] = struct{}{}
		if preset.ID != "" {
			checked.ID = preset.ID
		}
		snapshot.Presets = append(snapshot.Presets, checked)
	}

	seenPushes := make(map[string]struct{}, len(doc.GithubPushes))
	for i, push := range doc.GithubPushes {
		if push == nil || push.SHA == "" || push.ID == "" {
			return nil, importError("github_pushes", i, "id and sha are required")
		}
		if !knownProject(push.ProjectID, false) {
			return nil, importError("github_pushes", i, "unknown project "+push.ProjectID)
		}
		key := push.ProjectID + "|" + push.SHA
		if _, dup := seenPushes[key]; dup {
			continue
		}
		seenPushes[key] = struct{}{}
		snapshot.GithubPushes = append(snapshot.GithubPushes, push)
	}

	return snapshot, nil
}

func importRecords[T entity.Record](table string, records []T, projectOK func(T) bool) ([]T, error) {
	seen := make(map[string]struct{}, len(records))
	result := make([]T, 0, len(records))
	for i, record := range records {
		if isNilRecord(record) || record.RecordID() == "" {
			return nil, importError(table, i, "id is required")
		}
		if _, dup := seen[record.RecordID()]; dup {
			return nil, importError(table, i, "duplicate id "+record.RecordID())
		}
		if err := record.Validate(); err != nil {
			return nil, importError(table, i, err.Error())
		}
		if projectOK != nil && !projectOK(record) {
			return nil, importError(table, i, "references an unknown project")
		}
		seen[record.RecordID()] = struct{}{}
		result = append(result, record)
	}
	return result, nil
}

// validateImportedProject прогоняет поля через те же правила, что и форма
func validateImportedProject(p *entity.Project) error {
	probe := entity.ReconstructProject(p.State())
	return probe.Update(entity.ProjectDetails{
		Name:              p.Name(),
		Domain:            p.Domain(),
		Description:       p.Description(),
		GithubRepo:        p.GithubRepo(),
		Tags:              p.Tags(),
		AdsenseStatus:     p.AdsenseStatus(),
		DomainExpiry:      p.DomainExpiry(),
		LaunchedAt:        p.LaunchedAt(),
		LastContentUpdate: p.LastContentUpdate(),
		Notes:             p.Notes(),
	}, p.UpdatedAt())
}

func isNilRecord(record entity.Record) bool {
	if record == nil {
		return true
	}
	v := reflect.ValueOf(record)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func importError(table string, index int, message string) error {
	return &entity.ValidationError{
		Field:   fmt.Sprintf("%s[%d]", table, index),
		Message: message,
	}
}
