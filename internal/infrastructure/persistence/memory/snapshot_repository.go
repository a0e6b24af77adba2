package memory

import (
	"context"
	"sort"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

type SnapshotRepository struct {
	store *Store
}

func (r *SnapshotRepository) Export(_ context.Context) (*repository.Snapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &repository.Snapshot{
		Backlinks: sortedRecords(s.backlinks, cloneBacklink),
		Resources: sortedRecords(s.resources, cloneValue[entity.Resource]),
		Expenses:  sortedRecords(s.expenses, cloneExpense),
		Tools:     sortedRecords(s.tools, cloneValue[entity.Tool]),
	}
	for _, state := range s.projects {
		snapshot.Projects = append(snapshot.Projects, entity.ReconstructProject(cloneState(state)))
	}
	sort.Slice(snapshot.Projects, func(i, j int) bool {
		return snapshot.Projects[i].CreatedAt().Before(snapshot.Projects[j].CreatedAt())
	})
	for _, p := range s.presets {
		snapshot.Presets = append(snapshot.Presets, cloneValue(p))
	}
	sortPresets(snapshot.Presets)
	for _, p := range s.pushes {
		snapshot.GithubPushes = append(snapshot.GithubPushes, cloneValue(p))
	}
	sortPushes(snapshot.GithubPushes)
	return snapshot, nil
}

// Replace подменяет все таблицы разом
func (r *SnapshotRepository) Replace(_ context.Context, snapshot *repository.Snapshot) (repository.ImportCounts, error) {
	next := NewStore()
	for _, p := range snapshot.Projects {
		next.projects[p.ID()] = cloneState(p.State())
	}
	for _, b := range snapshot.Backlinks {
		next.backlinks[b.ID] = cloneBacklink(b)
	}
	for _, res := range snapshot.Resources {
		next.resources[res.ID] = cloneValue(res)
	}
	for _, e := range snapshot.Expenses {
		next.expenses[e.ID] = cloneExpense(e)
	}
	for _, t := range snapshot.Tools {
		next.tools[t.ID] = cloneValue(t)
	}
	for _, p := range snapshot.Presets {
		next.presets[p.ID] = cloneValue(p)
	}
	for _, p := range snapshot.GithubPushes {
		next.pushes[pushKey(p.ProjectID, p.SHA)] = cloneValue(p)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = next.projects
	s.backlinks = next.backlinks
	s.resources = next.resources
	s.expenses = next.expenses
	s.tools = next.tools
	s.presets = next.presets
	s.pushes = next.pushes

	return repository.ImportCounts{
		Projects:     len(next.projects),
		Backlinks:    len(next.backlinks),
		Resources:    len(next.resources),
		Expenses:     len(next.expenses),
		Tools:        len(next.tools),
		Presets:      len(next.presets),
		GithubPushes: len(next.pushes),
	}, nil
}
