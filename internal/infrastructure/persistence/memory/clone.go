package memory

import (
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
)

func cloneValue[V any](v *V) *V {
	c := *v
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneBacklink(b *entity.Backlink) *entity.Backlink {
	c := *b
	c.AcquiredAt = cloneTime(b.AcquiredAt)
	return &c
}

func cloneExpense(e *entity.Expense) *entity.Expense {
	c := *e
	c.PaidAt = cloneTime(e.PaidAt)
	return &c
}

func cloneState(state entity.ProjectState) entity.ProjectState {
	state.Tags = append([]string(nil), state.Tags...)
	state.DomainExpiry = cloneTime(state.DomainExpiry)
	state.LaunchedAt = cloneTime(state.LaunchedAt)
	state.LastGithubPush = cloneTime(state.LastGithubPush)
	state.LastContentUpdate = cloneTime(state.LastContentUpdate)
	state.LastManualUpdate = cloneTime(state.LastManualUpdate)
	return state
}
