package memory

import (
	"context"
	"sort"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

type PresetRepository struct {
	store *Store
}

func (r *PresetRepository) Save(_ context.Context, preset *entity.Preset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := service.PresetKey(preset.Value)
	for _, existing := range r.store.presets {
		if existing.ID == preset.ID ||
			(existing.Type == preset.Type && service.PresetKey(existing.Value) == key) {
			return repository.ErrConflict
		}
	}
	r.store.presets[preset.ID] = cloneValue(preset)
	return nil
}

func (r *PresetRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.presets[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.store.presets, id)
	return nil
}

func (r *PresetRepository) FindByType(_ context.Context, presetType valueobject.PresetType) ([]*entity.Preset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*entity.Preset, 0)
	for _, p := range r.store.presets {
		if p.Type == presetType {
			result = append(result, cloneValue(p))
		}
	}
	sortPresets(result)
	return result, nil
}

func (r *PresetRepository) FindAll(_ context.Context) ([]*entity.Preset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*entity.Preset, 0, len(r.store.presets))
	for _, p := range r.store.presets {
		result = append(result, cloneValue(p))
	}
	sortPresets(result)
	return result, nil
}

func sortPresets(presets []*entity.Preset) {
	sort.Slice(presets, func(i, j int) bool {
		if presets[i].Type != presets[j].Type {
			return presets[i].Type < presets[j].Type
		}
		return presets[i].Value < presets[j].Value
	})
}
