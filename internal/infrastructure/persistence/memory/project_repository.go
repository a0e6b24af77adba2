package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

type ProjectRepository struct {
	store *Store
}

func (r *ProjectRepository) Save(_ context.Context, project *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	state := project.State()
	if _, exists := r.store.projects[state.ID]; exists {
		return repository.ErrConflict
	}
	for _, other := range r.store.projects {
		if strings.EqualFold(other.Domain, state.Domain) {
			return repository.ErrConflict
		}
	}
	r.store.projects[state.ID] = cloneState(state)
	return nil
}

func (r *ProjectRepository) Update(_ context.Context, project *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	state := project.State()
	if _, exists := r.store.projects[state.ID]; !exists {
		return repository.ErrNotFound
	}
	for id, other := range r.store.projects {
		if id != state.ID && strings.EqualFold(other.Domain, state.Domain) {
			return repository.ErrConflict
		}
	}
	r.store.projects[state.ID] = cloneState(state)
	return nil
}

// Delete удаляет бэклинки и коммиты проекта, у расходов ссылка обнуляется
func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.projects[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.store.projects, id)

	for key, b := range r.store.backlinks {
		if b.ProjectID == id {
			delete(r.store.backlinks, key)
		}
	}
	for key, p := range r.store.pushes {
		if p.ProjectID == id {
			delete(r.store.pushes, key)
		}
	}
	for _, e := range r.store.expenses {
		if e.ProjectID == id {
			e.ProjectID = ""
		}
	}
	return nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id string) (*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	state, exists := r.store.projects[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return entity.ReconstructProject(cloneState(state)), nil
}

// FindAll - по имени
func (r *ProjectRepository) FindAll(_ context.Context) ([]*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	states := make([]entity.ProjectState, 0, len(r.store.projects))
	for _, state := range r.store.projects {
		states = append(states, cloneState(state))
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].Name != states[j].Name {
			return states[i].Name < states[j].Name
		}
		return states[i].ID < states[j].ID
	})

	projects := make([]*entity.Project, len(states))
	for i, state := range states {
		projects[i] = entity.ReconstructProject(state)
	}
	return projects, nil
}
