package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

var projectRowColumns = []string{
	"id", "name", "domain", "description", "github_repo", "tags", "adsense_status",
	"domain_expiry", "launched_at", "last_github_push", "last_content_update", "last_manual_update",
	"notes", "created_at", "updated_at",
}

func TestProjectRepository_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepository(db)

	project, err := entity.NewProject(entity.ProjectDetails{Name: "Acme", Domain: "acme.com", Tags: []string{"food"}}, fixedNow)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs(anyArgs(15)...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), project))
}

func TestProjectRepository_SaveDuplicateDomain(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepository(db)

	project, err := entity.NewProject(entity.ProjectDetails{Name: "Acme", Domain: "acme.com"}, fixedNow)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "projects_domain_key"})

	err = repo.Save(context.Background(), project)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Contains(t, err.Error(), "projects_domain_key")
}

func TestProjectRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepository(db)

	expiry := fixedNow.AddDate(1, 0, 0)
	rows := sqlmock.NewRows(projectRowColumns).AddRow(
		"p1", "Acme", "acme.com", "", "acme/site", "{food,diy}", "active",
		expiry, nil, nil, fixedNow, nil,
		"", fixedNow, fixedNow,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(rows)

	project, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", project.Domain())
	assert.Equal(t, []string{"food", "diy"}, project.Tags())
	assert.Equal(t, valueobject.AdsenseActive, project.AdsenseStatus())
	require.NotNil(t, project.DomainExpiry())
	assert.True(t, project.DomainExpiry().Equal(expiry))
	assert.Nil(t, project.LaunchedAt())
	require.NotNil(t, project.LastContentUpdate())
}

func TestProjectRepository_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(projectRowColumns))
	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), repository.ErrNotFound)

	project := entity.ReconstructProject(entity.ProjectState{ID: "missing", Name: "x", Domain: "x.com"})
	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects SET")).
		WithArgs(anyArgs(14)...).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(ctx, project), repository.ErrNotFound)
}

func TestRecordRepository_FindAllBacklinks(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBacklinkRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "project_id", "resource_id", "source_url", "target_url", "anchor_text",
		"status", "cost_cents", "notes", "acquired_at", "created_at", "updated_at",
	}).
		AddRow("b1", "p1", nil, "https://dir.io", "", "acme", "live", 1500, "", fixedNow, fixedNow, fixedNow).
		AddRow("b2", "p1", "r1", "https://blog.io", "", "", "planned", 0, "", nil, fixedNow, fixedNow)

	mock.ExpectQuery(regexp.QuoteMeta("FROM backlinks ORDER BY created_at, id")).WillReturnRows(rows)

	backlinks, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, backlinks, 2)
	assert.Empty(t, backlinks[0].ResourceID)
	assert.Equal(t, valueobject.BacklinkLive, backlinks[0].Status)
	require.NotNil(t, backlinks[0].AcquiredAt)
	assert.Equal(t, "r1", backlinks[1].ResourceID)
	assert.Nil(t, backlinks[1].AcquiredAt)
}

func TestRecordRepository_ExpenseOptionalProject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExpenseRepository(db)

	expense := &entity.Expense{ID: "e1", Name: "Hosting", Currency: "USD", BillingCycle: valueobject.BillingMonthly, CreatedAt: fixedNow, UpdatedAt: fixedNow}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
		WithArgs("e1", sql.NullString{}, "Hosting", "", int64(0), "USD", "monthly", sql.NullTime{}, "", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), expense))
}

func TestPresetRepository_Conflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPresetRepository(db)

	preset, err := entity.NewPreset(valueobject.PresetToolCategory, "Keywords", fixedNow)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO presets")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "presets_type_value_key"})

	assert.ErrorIs(t, repo.Save(context.Background(), preset), repository.ErrConflict)
}

func TestGithubPushRepository_SaveNewCountsInserted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGithubPushRepository(db)

	pushes := []*entity.GithubPush{
		{ID: "1", ProjectID: "p1", SHA: "aaa", PushedAt: fixedNow},
		{ID: "2", ProjectID: "p1", SHA: "bbb", PushedAt: fixedNow},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO github_pushes"))
	prep.ExpectExec().WithArgs(anyArgs(7)...).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(anyArgs(7)...).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	stored, err := repo.SaveNew(context.Background(), pushes)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestSnapshotRepository_ReplaceRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSnapshotRepository(db)

	project := entity.ReconstructProject(entity.ProjectState{ID: "p1", Name: "Acme", Domain: "acme.com", CreatedAt: fixedNow, UpdatedAt: fixedNow})

	mock.ExpectBegin()
	for _, table := range deleteOrder {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).WillReturnResult(sqlmock.NewResult(0, 3))
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Replace(context.Background(), &repository.Snapshot{Projects: []*entity.Project{project}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSnapshotRepository_Replace(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSnapshotRepository(db)

	project := entity.ReconstructProject(entity.ProjectState{ID: "p1", Name: "Acme", Domain: "acme.com", CreatedAt: fixedNow, UpdatedAt: fixedNow})
	snapshot := &repository.Snapshot{
		Projects:     []*entity.Project{project},
		Backlinks:    []*entity.Backlink{{ID: "b1", ProjectID: "p1", SourceURL: "https://dir.io", Status: valueobject.BacklinkPlanned}},
		Presets:      []*entity.Preset{{ID: "s1", Type: valueobject.PresetToolCategory, Value: "SEO", CreatedAt: fixedNow}},
		GithubPushes: []*entity.GithubPush{{ID: "g1", ProjectID: "p1", SHA: "abc", PushedAt: fixedNow}},
	}

	mock.ExpectBegin()
	for _, table := range deleteOrder {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backlinks")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO presets")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO github_pushes")).
		ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	counts, err := repo.Replace(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, repository.ImportCounts{Projects: 1, Backlinks: 1, Presets: 1, GithubPushes: 1}, counts)
}
