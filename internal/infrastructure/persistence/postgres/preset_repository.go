package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// PresetRepository хранит presets; уникальность (type, lower(value)) обеспечивает индекс
type PresetRepository struct {
	db *sql.DB
}

func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func (r *PresetRepository) Save(ctx context.Context, preset *entity.Preset) error {
	return insertPreset(ctx, r.db, preset)
}

func insertPreset(ctx context.Context, q dbtx, preset *entity.Preset) error {
	query := `INSERT INTO presets (` + presetColumns + `) VALUES ($1, $2, $3, $4)`
	if _, err := q.ExecContext(ctx, query, preset.ID, string(preset.Type), preset.Value, preset.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert preset: %w", mapError(err))
	}
	return nil
}

func (r *PresetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return expectAffected(result)
}

func (r *PresetRepository) FindByType(ctx context.Context, presetType valueobject.PresetType) ([]*entity.Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets WHERE type = $1 ORDER BY lower(value)`
	return queryPresets(ctx, r.db, query, string(presetType))
}

func (r *PresetRepository) FindAll(ctx context.Context) ([]*entity.Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets ORDER BY type, lower(value)`
	return queryPresets(ctx, r.db, query)
}

func queryPresets(ctx context.Context, q dbtx, query string, args ...interface{}) ([]*entity.Preset, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	presets := make([]*entity.Preset, 0)
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, preset)
	}
	return presets, rows.Err()
}
