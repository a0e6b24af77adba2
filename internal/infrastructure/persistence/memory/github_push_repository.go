package memory

import (
	"context"
	"sort"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
)

type GithubPushRepository struct {
	store *Store
}

func pushKey(projectID, sha string) string {
	return projectID + "|" + sha
}

func (r *GithubPushRepository) SaveNew(_ context.Context, pushes []*entity.GithubPush) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := 0
	for _, push := range pushes {
		key := pushKey(push.ProjectID, push.SHA)
		if _, exists := r.store.pushes[key]; exists {
			continue
		}
		r.store.pushes[key] = cloneValue(push)
		stored++
	}
	return stored, nil
}

// FindSince - начиная с since, новые первыми
func (r *GithubPushRepository) FindSince(_ context.Context, since time.Time) ([]*entity.GithubPush, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*entity.GithubPush, 0)
	for _, p := range r.store.pushes {
		if !p.PushedAt.Before(since) {
			result = append(result, cloneValue(p))
		}
	}
	sortPushes(result)
	return result, nil
}

func (r *GithubPushRepository) FindByProject(_ context.Context, projectID string, limit int) ([]*entity.GithubPush, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*entity.GithubPush, 0)
	for _, p := range r.store.pushes {
		if p.ProjectID == projectID {
			result = append(result, cloneValue(p))
		}
	}
	sortPushes(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func sortPushes(pushes []*entity.GithubPush) {
	sort.Slice(pushes, func(i, j int) bool {
		if !pushes[i].PushedAt.Equal(pushes[j].PushedAt) {
			return pushes[i].PushedAt.After(pushes[j].PushedAt)
		}
		return pushes[i].SHA < pushes[j].SHA
	})
}
