package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/pkg/config"
)

const apiVersion = "2022-11-28"

var (
	// ErrRepositoryNotFound - репозиторий не существует или недоступен токену
	ErrRepositoryNotFound = errors.New("github repository not found")
	// ErrRateLimited - исчерпан лимит GitHub API
	ErrRateLimited = errors.New("github rate limit exceeded")
)

// Client - REST клиент GitHub для чтения последних коммитов
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient создает клиента; при наличии токена запросы идут через oauth2 транспорт
func NewClient(ctx context.Context, cfg config.GitHubConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if token := strings.TrimSpace(cfg.Token); token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, source)
		httpClient.Timeout = timeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
	}
}

type commitResponse struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// LatestCommits возвращает последние коммиты ветки по умолчанию
func (c *Client) LatestCommits(ctx context.Context, owner, repo string, perPage int) ([]port.Commit, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("github limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", "niche-dashboard")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", owner, repo, err)
	}

	var payload []commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode commits: %w", err)
	}

	commits := make([]port.Commit, 0, len(payload))
	for _, item := range payload {
		commits = append(commits, toCommit(item))
	}
	return commits, nil
}

func toCommit(item commitResponse) port.Commit {
	author := item.Commit.Author.Name
	if item.Author != nil && item.Author.Login != "" {
		author = item.Author.Login
	}

	// committer date - момент попадания в ветку (важно для rebase/merge)
	committed := item.Commit.Committer.Date
	if committed.IsZero() {
		committed = item.Commit.Author.Date
	}

	return port.Commit{
		SHA:       item.SHA,
		Message:   item.Commit.Message,
		Author:    author,
		URL:       item.HTMLURL,
		Committed: committed.UTC(),
	}
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrRepositoryNotFound
	case resp.StatusCode == http.StatusConflict:
		// пустой репозиторий
		return errEmptyRepository
	case (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests) &&
		resp.Header.Get("X-RateLimit-Remaining") == "0":
		if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			return fmt.Errorf("%w until %s", ErrRateLimited, time.Unix(reset, 0).UTC().Format(time.RFC3339))
		}
		return ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

var errEmptyRepository = errors.New("github repository is empty")
