// Package memory - хранилище в памяти процесса (DB_DRIVER=memory и тесты).
// Все значения копируются на входе и выходе.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

// Store держит все таблицы под одним мьютексом, чтобы каскадное удаление
// и импорт были атомарными
type Store struct {
	mu        sync.RWMutex
	projects  map[string]entity.ProjectState
	backlinks map[string]*entity.Backlink
	resources map[string]*entity.Resource
	expenses  map[string]*entity.Expense
	tools     map[string]*entity.Tool
	presets   map[string]*entity.Preset
	pushes    map[string]*entity.GithubPush
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.projects = make(map[string]entity.ProjectState)
	s.backlinks = make(map[string]*entity.Backlink)
	s.resources = make(map[string]*entity.Resource)
	s.expenses = make(map[string]*entity.Expense)
	s.tools = make(map[string]*entity.Tool)
	s.presets = make(map[string]*entity.Preset)
	s.pushes = make(map[string]*entity.GithubPush)
}

// Ping всегда успешен
func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Projects() repository.ProjectRepository { return &ProjectRepository{store: s} }

func (s *Store) Backlinks() repository.BacklinkRepository {
	return &recordRepository[*entity.Backlink]{store: s, rows: func(s *Store) map[string]*entity.Backlink { return s.backlinks }, clone: cloneBacklink}
}

func (s *Store) Resources() repository.ResourceRepository {
	return &recordRepository[*entity.Resource]{store: s, rows: func(s *Store) map[string]*entity.Resource { return s.resources }, clone: cloneValue[entity.Resource]}
}

func (s *Store) Expenses() repository.ExpenseRepository {
	return &recordRepository[*entity.Expense]{store: s, rows: func(s *Store) map[string]*entity.Expense { return s.expenses }, clone: cloneExpense}
}

func (s *Store) Tools() repository.ToolRepository {
	return &recordRepository[*entity.Tool]{store: s, rows: func(s *Store) map[string]*entity.Tool { return s.tools }, clone: cloneValue[entity.Tool]}
}

func (s *Store) Presets() repository.PresetRepository { return &PresetRepository{store: s} }

func (s *Store) GithubPushes() repository.GithubPushRepository {
	return &GithubPushRepository{store: s}
}

func (s *Store) Snapshots() repository.SnapshotRepository { return &SnapshotRepository{store: s} }

// recordRepository - общий CRUD справочников
type recordRepository[T entity.Record] struct {
	store *Store
	rows  func(*Store) map[string]T
	clone func(T) T
}

func (r *recordRepository[T]) Save(_ context.Context, record T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rows := r.rows(r.store)
	if _, exists := rows[record.RecordID()]; exists {
		return repository.ErrConflict
	}
	rows[record.RecordID()] = r.clone(record)
	return nil
}

func (r *recordRepository[T]) Update(_ context.Context, record T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rows := r.rows(r.store)
	if _, exists := rows[record.RecordID()]; !exists {
		return repository.ErrNotFound
	}
	rows[record.RecordID()] = r.clone(record)
	return nil
}

func (r *recordRepository[T]) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rows := r.rows(r.store)
	if _, exists := rows[id]; !exists {
		return repository.ErrNotFound
	}
	delete(rows, id)
	return nil
}

func (r *recordRepository[T]) FindByID(_ context.Context, id string) (T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, exists := r.rows(r.store)[id]
	if !exists {
		var zero T
		return zero, repository.ErrNotFound
	}
	return r.clone(record), nil
}

// FindAll - по возрастанию createdAt
func (r *recordRepository[T]) FindAll(_ context.Context) ([]T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedRecords(r.rows(r.store), r.clone), nil
}

func sortedRecords[T entity.Record](rows map[string]T, clone func(T) T) []T {
	result := make([]T, 0, len(rows))
	for _, record := range rows {
		result = append(result, clone(record))
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].RecordCreatedAt(), result[j].RecordCreatedAt()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return result[i].RecordID() < result[j].RecordID()
	})
	return result
}
var _ repository.Store = (*Store)(nil)
