package entity

import "time"

// GithubPush - коммит из репозитория проекта, уникален по (projectId, sha)
type GithubPush struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SHA       string    `json:"sha"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	PushedAt  time.Time `json:"pushed_at"`
}
