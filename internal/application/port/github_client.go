package port

import (
	"context"
	"time"
)

// Commit - коммит из GitHub REST API
type Commit struct {
	SHA       string
	Message   string
	Author    string
	URL       string
	Committed time.Time
}

// GitHubClient получает последние коммиты репозитория
type GitHubClient interface {
	LatestCommits(ctx context.Context, owner, repo string, perPage int) ([]Commit, error)
}
