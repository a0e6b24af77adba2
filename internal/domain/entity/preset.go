package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// Preset - пользовательское значение категории в рамках типа
type Preset struct {
	ID        string                 `json:"id"`
	Type      valueobject.PresetType `json:"type"`
	Value     string                 `json:"value"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewPreset ожидает уже нормализованное значение
func NewPreset(presetType valueobject.PresetType, value string, now time.Time) (*Preset, error) {
	if _, err := valueobject.ParsePresetType(string(presetType)); err != nil {
		return nil, invalid("type", "%s", err.Error())
	}
	if err := requireText("value", value, 100); err != nil {
		return nil, err
	}
	return &Preset{
		ID:        uuid.New().String(),
		Type:      presetType,
		Value:     value,
		CreatedAt: now,
	}, nil
}
