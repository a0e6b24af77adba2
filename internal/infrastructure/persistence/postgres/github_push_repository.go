package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
)

// GithubPushRepository хранит историю коммитов
type GithubPushRepository struct {
	db *sql.DB
}

func NewGithubPushRepository(db *sql.DB) *GithubPushRepository {
	return &GithubPushRepository{db: db}
}

const insertPushQuery = `
	INSERT INTO github_pushes (` + pushColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (project_id, sha) DO NOTHING
`

// SaveNew вставляет коммиты одной транзакцией, известные (project_id, sha) пропускаются
func (r *GithubPushRepository) SaveNew(ctx context.Context, pushes []*entity.GithubPush) (int, error) {
	if len(pushes) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stored, err := insertPushes(ctx, tx, pushes)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return stored, nil
}

func insertPushes(ctx context.Context, tx *sql.Tx, pushes []*entity.GithubPush) (int, error) {
	stmt, err := tx.PrepareContext(ctx, insertPushQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, push := range pushes {
		result, err := stmt.ExecContext(ctx, pushArgs(push)...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert push %s: %w", push.SHA, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			stored++
		}
	}
	return stored, nil
}

// FindSince - коммиты начиная с since, новые первыми
func (r *GithubPushRepository) FindSince(ctx context.Context, since time.Time) ([]*entity.GithubPush, error) {
	query := `SELECT ` + pushColumns + ` FROM github_pushes WHERE pushed_at >= $1 ORDER BY pushed_at DESC, sha`
	return queryPushes(ctx, r.db, query, since)
}

// FindByProject - последние коммиты проекта; limit <= 0 - без ограничения
func (r *GithubPushRepository) FindByProject(ctx context.Context, projectID string, limit int) ([]*entity.GithubPush, error) {
	if limit <= 0 {
		query := `SELECT ` + pushColumns + ` FROM github_pushes WHERE project_id = $1 ORDER BY pushed_at DESC, sha`
		return queryPushes(ctx, r.db, query, projectID)
	}
	query := `SELECT ` + pushColumns + ` FROM github_pushes WHERE project_id = $1 ORDER BY pushed_at DESC, sha LIMIT $2`
	return queryPushes(ctx, r.db, query, projectID, limit)
}

func queryPushes(ctx context.Context, q dbtx, query string, args ...interface{}) ([]*entity.GithubPush, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query github pushes: %w", err)
	}
	defer rows.Close()

	pushes := make([]*entity.GithubPush, 0)
	for rows.Next() {
		push, err := scanPush(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan github push: %w", err)
		}
		pushes = append(pushes, push)
	}
	return pushes, rows.Err()
}
