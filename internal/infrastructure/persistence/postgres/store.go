package postgres

import (
	"context"
	"database/sql"

	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
)

// Store реализует repository.Store поверх одного connection pool
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Projects() repository.ProjectRepository { return NewProjectRepository(s.db) }

func (s *Store) Backlinks() repository.BacklinkRepository { return NewBacklinkRepository(s.db) }

func (s *Store) Resources() repository.ResourceRepository { return NewResourceRepository(s.db) }

func (s *Store) Expenses() repository.ExpenseRepository { return NewExpenseRepository(s.db) }

func (s *Store) Tools() repository.ToolRepository { return NewToolRepository(s.db) }

func (s *Store) Presets() repository.PresetRepository { return NewPresetRepository(s.db) }

func (s *Store) GithubPushes() repository.GithubPushRepository { return NewGithubPushRepository(s.db) }

func (s *Store) Snapshots() repository.SnapshotRepository { return NewSnapshotRepository(s.db) }

var _ repository.Store = (*Store)(nil)
