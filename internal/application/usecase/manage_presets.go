package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// ManagePresetsUseCase - пользовательские значения категорий
type ManagePresetsUseCase struct {
	repository repository.PresetRepository
	clock      service.Clock
	notifier   *ChangeNotifier
	logger     *logger.Logger
}

func NewManagePresetsUseCase(
	repository repository.PresetRepository,
	clock service.Clock,
	notifier *ChangeNotifier,
	logger *logger.Logger,
) *ManagePresetsUseCase {
	return &ManagePresetsUseCase{
		repository: repository,
		clock:      clock,
		notifier:   notifier,
		logger:     logger,
	}
}

// List возвращает значения типа (или все при пустом типе), отсортированные по значению
func (uc *ManagePresetsUseCase) List(ctx context.Context, rawType string) ([]*entity.Preset, error) {
	var (
		presets []*entity.Preset
		err     error
	)
	if rawType == "" {
		presets, err = uc.repository.FindAll(ctx)
	} else {
		presetType, parseErr := valueobject.ParsePresetType(rawType)
		if parseErr != nil {
			return nil, &entity.ValidationError{Field: "type", Message: parseErr.Error()}
		}
		presets, err = uc.repository.FindByType(ctx, presetType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch presets: %w", err)
	}

	sort.SliceStable(presets, func(i, j int) bool {
		if presets[i].Type != presets[j].Type {
			return presets[i].Type < presets[j].Type
		}
		return strings.ToLower(presets[i].Value) < strings.ToLower(presets[j].Value)
	})
	return presets, nil
}

// Create добавляет значение; дубликат (без учета регистра) - repository.ErrConflict
func (uc *ManagePresetsUseCase) Create(ctx context.Context, rawType, rawValue string) (*entity.Preset, error) {
	preset, err := uc.build(rawType, rawValue)
	if err != nil {
		return nil, err
	}
	if err := uc.repository.Save(ctx, preset); err != nil {
		return nil, fmt.Errorf("failed to save preset %q: %w", preset.Value, err)
	}
	uc.notifier.Changed(ctx, "", nil)
	return preset, nil
}

// Ensure - идемпотентная регистрация значения, используется справочниками
func (uc *ManagePresetsUseCase) Ensure(ctx context.Context, presetType valueobject.PresetType, rawValue string) error {
	if service.NormalizePresetValue(rawValue) == "" {
		return nil
	}
	preset, err := uc.build(string(presetType), rawValue)
	if err != nil {
		return err
	}
	err = uc.repository.Save(ctx, preset)
	if err == nil {
		uc.logger.Debug("Preset registered", "type", presetType, "value", preset.Value)
		return nil
	}
	if errors.Is(err, repository.ErrConflict) {
		return nil
	}
	return fmt.Errorf("failed to ensure preset %q: %w", preset.Value, err)
}

func (uc *ManagePresetsUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	uc.notifier.Changed(ctx, "", nil)
	return nil
}

func (uc *ManagePresetsUseCase) build(rawType, rawValue string) (*entity.Preset, error) {
	presetType, err := valueobject.ParsePresetType(rawType)
	if err != nil {
		return nil, &entity.ValidationError{Field: "type", Message: err.Error()}
	}
	return entity.NewPreset(presetType, service.NormalizePresetValue(rawValue), uc.clock.Now())
}
