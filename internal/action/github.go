package action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultGitHubBaseURL = "https://api.github.com"

// GitHubProvider answers fetch_github_stats via the GitHub REST API.
// A token is optional; unauthenticated requests work with lower rate
// limits.
type GitHubProvider struct {
	token   string
	baseURL string
	client  *http.Client
}

// GitHubOption customizes a GitHubProvider.
type GitHubOption func(*GitHubProvider)

// WithGitHubBaseURL overrides the API base URL (used by tests).
func WithGitHubBaseURL(base string) GitHubOption {
	return func(p *GitHubProvider) { p.baseURL = strings.TrimSuffix(base, "/") }
}

// NewGitHubProvider creates the fetch_github_stats capability.
func NewGitHubProvider(token string, opts ...GitHubOption) *GitHubProvider {
	p := &GitHubProvider{
		token:   token,
		baseURL: defaultGitHubBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GitHubProvider) Name() string { return "fetch_github_stats" }

func (p *GitHubProvider) Validate(params map[string]any) error {
	if stringParam(params, "owner") == "" || stringParam(params, "repo") == "" {
		return missingParam("fetch_github_stats", "'owner' and 'repo'")
	}
	return nil
}

func (p *GitHubProvider) Invoke(ctx context.Context, params map[string]any) (any, error) {
	owner := stringParam(params, "owner")
	repo := stringParam(params, "repo")

	url := fmt.Sprintf("%s/repos/%s/%s", p.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "Arise-Chat-Bot")
	if p.token != "" {
		req.Header.Set("Authorization", "token "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching repository: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("repository not found: %s/%s", owner, repo)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var data struct {
		Name            string   `json:"name"`
		FullName        string   `json:"full_name"`
		Description     string   `json:"description"`
		StargazersCount int      `json:"stargazers_count"`
		ForksCount      int      `json:"forks_count"`
		OpenIssuesCount int      `json:"open_issues_count"`
		Language        string   `json:"language"`
		CreatedAt       string   `json:"created_at"`
		UpdatedAt       string   `json:"updated_at"`
		HTMLURL         string   `json:"html_url"`
		Topics          []string `json:"topics"`
		License         *struct {
			Name string `json:"name"`
		} `json:"license"`
		DefaultBranch string `json:"default_branch"`
		Archived      bool   `json:"archived"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing repository data: %w", err)
	}

	stats := map[string]any{
		"name":              data.Name,
		"full_name":         data.FullName,
		"description":       data.Description,
		"stargazers_count":  data.StargazersCount,
		"forks_count":       data.ForksCount,
		"open_issues_count": data.OpenIssuesCount,
		"language":          data.Language,
		"created_at":        data.CreatedAt,
		"updated_at":        data.UpdatedAt,
		"html_url":          data.HTMLURL,
		"topics":            data.Topics,
		"default_branch":    data.DefaultBranch,
		"archived":          data.Archived,
	}
	if data.License != nil {
		stats["license"] = data.License.Name
	}
	return stats, nil
}

func (p *GitHubProvider) Format(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return "", false
	}
	s := fmt.Sprintf("%s: %s stars, %s forks, %s open issues.",
		name,
		formatCount(m["stargazers_count"]),
		formatCount(m["forks_count"]),
		formatCount(m["open_issues_count"]))
	if desc, _ := m["description"].(string); desc != "" {
		s += " " + desc
	}
	return s, true
}

// formatCount renders a count that may be an int (fresh payload) or a
// float64 (payload round-tripped through JSON).
func formatCount(v any) string {
	switch n := v.(type) {
	case int:
		return fmt.Sprintf("%d", n)
	case float64:
		return fmt.Sprintf("%d", int64(n))
	default:
		return "0"
	}
}
