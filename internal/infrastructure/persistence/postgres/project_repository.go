package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
)

// ProjectRepository реализует repository.ProjectRepository для PostgreSQL
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository создает новый PostgreSQL repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const insertProjectQuery = `
	INSERT INTO projects (` + projectColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

// Save сохраняет новый проект
func (r *ProjectRepository) Save(ctx context.Context, project *entity.Project) error {
	return insertProject(ctx, r.db, project)
}

func insertProject(ctx context.Context, q dbtx, project *entity.Project) error {
	if _, err := q.ExecContext(ctx, insertProjectQuery, projectArgs(project)...); err != nil {
		return fmt.Errorf("failed to insert project: %w", mapError(err))
	}
	return nil
}

// Update перезаписывает все поля кроме id и created_at
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	query := `
		UPDATE projects SET
			name = $2, domain = $3, description = $4, github_repo = $5, tags = $6,
			adsense_status = $7, domain_expiry = $8, launched_at = $9, last_github_push = $10,
			last_content_update = $11, last_manual_update = $12, notes = $13, updated_at = $14
		WHERE id = $1
	`
	// created_at не обновляется
	args := projectArgs(project)
	args = append(args[:13], args[14])

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", mapError(err))
	}
	return expectAffected(result)
}

// Delete удаляет проект; backlinks и github_pushes удаляются каскадно
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return expectAffected(result)
}

// FindByID находит проект по идентификатору
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return project, nil
}

// FindAll возвращает все проекты по имени
func (r *ProjectRepository) FindAll(ctx context.Context) ([]*entity.Project, error) {
	return findProjects(ctx, r.db)
}

func findProjects(ctx context.Context, q dbtx) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY name, id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*entity.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}
