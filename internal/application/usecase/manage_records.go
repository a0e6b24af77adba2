package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// RecordOptions настраивает ManageRecordsUseCase под конкретную сущность
type RecordOptions[T entity.Record] struct {
	// Kind - имя для логов ("backlink", "expense", ...)
	Kind string
	// ProjectOf возвращает ссылку на проект; непустая ссылка должна существовать
	ProjectOf func(T) string
}

// ManageRecordsUseCase - CRUD справочников (backlinks, resources, expenses, tools).
// Категории сущностей Categorized регистрируются как presets.
type ManageRecordsUseCase[T entity.Record] struct {
	repository repository.RecordRepository[T]
	projects   repository.ProjectRepository
	presets    *ManagePresetsUseCase
	clock      service.Clock
	notifier   *ChangeNotifier
	logger     *logger.Logger
	options    RecordOptions[T]
}

func NewManageRecordsUseCase[T entity.Record](
	repository repository.RecordRepository[T],
	projects repository.ProjectRepository,
	presets *ManagePresetsUseCase,
	clock service.Clock,
	notifier *ChangeNotifier,
	logger *logger.Logger,
	options RecordOptions[T],
) *ManageRecordsUseCase[T] {
	return &ManageRecordsUseCase[T]{
		repository: repository,
		projects:   projects,
		presets:    presets,
		clock:      clock,
		notifier:   notifier,
		logger:     logger,
		options:    options,
	}
}

// List возвращает записи, для которых match вернул true (nil - все)
func (uc *ManageRecordsUseCase[T]) List(ctx context.Context, match func(T) bool) ([]T, error) {
	records, err := uc.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %ss: %w", uc.options.Kind, err)
	}
	if match == nil {
		return records, nil
	}

	filtered := make([]T, 0, len(records))
	for _, r := range records {
		if match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (uc *ManageRecordsUseCase[T]) Get(ctx context.Context, id string) (T, error) {
	record, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to fetch %s %s: %w", uc.options.Kind, id, err)
	}
	return record, nil
}

func (uc *ManageRecordsUseCase[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	if err := uc.prepare(ctx, record); err != nil {
		return zero, err
	}

	now := uc.clock.Now()
	record.Stamp(uuid.New().String(), now, now)
	if err := uc.repository.Save(ctx, record); err != nil {
		uc.logger.Error("Failed to save record", err, "kind", uc.options.Kind)
		return zero, fmt.Errorf("failed to save %s: %w", uc.options.Kind, err)
	}

	uc.afterWrite(ctx, record)
	return record, nil
}

// Update полностью заменяет запись; id и createdAt сохраняются
func (uc *ManageRecordsUseCase[T]) Update(ctx context.Context, id string, record T) (T, error) {
	var zero T
	existing, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("failed to fetch %s %s: %w", uc.options.Kind, id, err)
	}
	if err := uc.prepare(ctx, record); err != nil {
		return zero, err
	}

	record.Stamp(id, existing.RecordCreatedAt(), uc.clock.Now())
	if err := uc.repository.Update(ctx, record); err != nil {
		return zero, fmt.Errorf("failed to update %s %s: %w", uc.options.Kind, id, err)
	}

	uc.afterWrite(ctx, record)
	return record, nil
}

func (uc *ManageRecordsUseCase[T]) Delete(ctx context.Context, id string) error {
	if err := uc.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", uc.options.Kind, id, err)
	}
	uc.logger.Debug("Record deleted", "kind", uc.options.Kind, "id", id)
	uc.notifier.Changed(ctx, "", nil)
	return nil
}

func (uc *ManageRecordsUseCase[T]) prepare(ctx context.Context, record T) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if uc.options.ProjectOf == nil || uc.projects == nil {
		return nil
	}
	projectID := uc.options.ProjectOf(record)
	if projectID == "" {
		return nil
	}
	_, err := uc.projects.FindByID(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return &entity.ValidationError{Field: "project_id", Message: fmt.Sprintf("unknown project %s", projectID)}
	}
	if err != nil {
		return fmt.Errorf("failed to check project %s: %w", projectID, err)
	}
	return nil
}

func (uc *ManageRecordsUseCase[T]) afterWrite(ctx context.Context, record T) {
	if categorized, ok := any(record).(entity.Categorized); ok && uc.presets != nil {
		presetType, value := categorized.PresetCategory()
		if err := uc.presets.Ensure(ctx, presetType, value); err != nil {
			// запись уже сохранена, preset только подсказка для формы
			uc.logger.Warn("Failed to register preset", "kind", uc.options.Kind, "error", err)
		}
	}
	uc.notifier.Changed(ctx, "", nil)
}
