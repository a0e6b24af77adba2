package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newProject(t *testing.T, name, domain string) *entity.Project {
	t.Helper()
	p, err := entity.NewProject(entity.ProjectDetails{Name: name, Domain: domain}, now)
	require.NoError(t, err)
	return p
}

func TestProjectRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Projects()

	p := newProject(t, "Acme", "acme.com")
	require.NoError(t, repo.Save(ctx, p))
	assert.ErrorIs(t, repo.Save(ctx, newProject(t, "Other", "ACME.com")), repository.ErrConflict)

	loaded, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "acme.com", loaded.Domain())

	// изменения загруженной копии не видны до Update
	loaded.TouchManual(now)
	again, _ := repo.FindByID(ctx, p.ID())
	assert.Nil(t, again.LastManualUpdate())

	require.NoError(t, repo.Update(ctx, loaded))
	again, _ = repo.FindByID(ctx, p.ID())
	assert.NotNil(t, again.LastManualUpdate())

	require.NoError(t, repo.Delete(ctx, p.ID()))
	_, err = repo.FindByID(ctx, p.ID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID()), repository.ErrNotFound)
}

func TestProjectDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	p := newProject(t, "Acme", "acme.com")
	require.NoError(t, store.Projects().Save(ctx, p))

	require.NoError(t, store.Backlinks().Save(ctx, &entity.Backlink{ID: "b1", ProjectID: p.ID(), SourceURL: "https://x.io"}))
	require.NoError(t, store.Expenses().Save(ctx, &entity.Expense{ID: "e1", ProjectID: p.ID(), Name: "Hosting"}))
	_, err := store.GithubPushes().SaveNew(ctx, []*entity.GithubPush{{ID: "g1", ProjectID: p.ID(), SHA: "abc", PushedAt: now}})
	require.NoError(t, err)

	require.NoError(t, store.Projects().Delete(ctx, p.ID()))

	backlinks, _ := store.Backlinks().FindAll(ctx)
	assert.Empty(t, backlinks)
	pushes, _ := store.GithubPushes().FindByProject(ctx, p.ID(), 0)
	assert.Empty(t, pushes)
	expense, err := store.Expenses().FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, expense.ProjectID)
}

func TestPresetRepository_CaseInsensitiveConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Presets()

	first, _ := entity.NewPreset(valueobject.PresetExpenseCategory, "Hosting", now)
	dup, _ := entity.NewPreset(valueobject.PresetExpenseCategory, "hosting", now)
	otherType, _ := entity.NewPreset(valueobject.PresetToolCategory, "Hosting", now)

	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, dup), repository.ErrConflict)
	require.NoError(t, repo.Save(ctx, otherType))

	expense, err := repo.FindByType(ctx, valueobject.PresetExpenseCategory)
	require.NoError(t, err)
	require.Len(t, expense, 1)
	assert.Equal(t, "Hosting", expense[0].Value)
}

func TestGithubPushRepository_SaveNewDedupes(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().GithubPushes()

	pushes := []*entity.GithubPush{
		{ID: "1", ProjectID: "p", SHA: "a", PushedAt: now.Add(-48 * time.Hour)},
		{ID: "2", ProjectID: "p", SHA: "b", PushedAt: now},
	}
	stored, err := repo.SaveNew(ctx, pushes)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	stored, err = repo.SaveNew(ctx, pushes)
	require.NoError(t, err)
	assert.Zero(t, stored)

	recent, err := repo.FindSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "b", recent[0].SHA)

	latest, err := repo.FindByProject(ctx, "p", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "b", latest[0].SHA)
}

func TestSnapshotReplace(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Projects().Save(ctx, newProject(t, "Old", "old.com")))

	fresh := newProject(t, "New", "new.com")
	counts, err := store.Snapshots().Replace(ctx, &repository.Snapshot{
		Projects:  []*entity.Project{fresh},
		Backlinks: []*entity.Backlink{{ID: "b1", ProjectID: fresh.ID(), SourceURL: "https://x.io"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Projects)
	assert.Equal(t, 1, counts.Backlinks)

	exported, err := store.Snapshots().Export(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Projects, 1)
	assert.Equal(t, "new.com", exported.Projects[0].Domain())
	assert.Len(t, exported.Backlinks, 1)
}
