package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

// SnapshotRepository выгружает и атомарно заменяет содержимое всех таблиц
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// deleteOrder - дочерние таблицы первыми
var deleteOrder = []string{"github_pushes", "backlinks", "expenses", "presets", "tools", "resources", "projects"}

// Export читает все таблицы в одной транзакции только для чтения
func (r *SnapshotRepository) Export(ctx context.Context) (*repository.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	snapshot := &repository.Snapshot{}
	if snapshot.Projects, err = findProjects(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.Resources, err = findRecords(ctx, tx, resourceTable); err != nil {
		return nil, err
	}
	if snapshot.Backlinks, err = findRecords(ctx, tx, backlinkTable); err != nil {
		return nil, err
	}
	if snapshot.Expenses, err = findRecords(ctx, tx, expenseTable); err != nil {
		return nil, err
	}
	if snapshot.Tools, err = findRecords(ctx, tx, toolTable); err != nil {
		return nil, err
	}
	if snapshot.Presets, err = queryPresets(ctx, tx, `SELECT `+presetColumns+` FROM presets ORDER BY type, lower(value)`); err != nil {
		return nil, err
	}
	if snapshot.GithubPushes, err = queryPushes(ctx, tx, `SELECT `+pushColumns+` FROM github_pushes ORDER BY pushed_at DESC, sha`); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return snapshot, nil
}

// Replace удаляет все строки и вставляет снимок (родители первыми) в одной транзакции.
// При любой ошибке транзакция откатывается и данные не меняются.
func (r *SnapshotRepository) Replace(ctx context.Context, snapshot *repository.Snapshot) (repository.ImportCounts, error) {
	var counts repository.ImportCounts

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range deleteOrder {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return counts, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range snapshot.Projects {
		if err := insertProject(ctx, tx, p); err != nil {
			return counts, err
		}
	}
	counts.Projects = len(snapshot.Projects)

	for _, res := range snapshot.Resources {
		if err := insertRecord(ctx, tx, resourceTable, res); err != nil {
			return counts, err
		}
	}
	counts.Resources = len(snapshot.Resources)

	for _, b := range snapshot.Backlinks {
		if err := insertRecord(ctx, tx, backlinkTable, b); err != nil {
			return counts, err
		}
	}
	counts.Backlinks = len(snapshot.Backlinks)

	for _, e := range snapshot.Expenses {
		if err := insertRecord(ctx, tx, expenseTable, e); err != nil {
			return counts, err
		}
	}
	counts.Expenses = len(snapshot.Expenses)

	for _, t := range snapshot.Tools {
		if err := insertRecord(ctx, tx, toolTable, t); err != nil {
			return counts, err
		}
	}
	counts.Tools = len(snapshot.Tools)

	for _, p := range snapshot.Presets {
		if err := insertPreset(ctx, tx, p); err != nil {
			return counts, err
		}
	}
	counts.Presets = len(snapshot.Presets)

	if len(snapshot.GithubPushes) > 0 {
		if counts.GithubPushes, err = insertPushes(ctx, tx, snapshot.GithubPushes); err != nil {
			return counts, err
		}
	}

	if err := tx.Commit(); err != nil {
		return repository.ImportCounts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return counts, nil
}
