package action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBraveBaseURL = "https://api.search.brave.com"

// SearchProvider answers search_web. With a Brave Search API key it
// queries the real API; without one it returns deterministic simulated
// results built from the query so the capability still works offline.
type SearchProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// SearchOption customizes a SearchProvider.
type SearchOption func(*SearchProvider)

// WithSearchBaseURL overrides the API base URL (used by tests).
func WithSearchBaseURL(base string) SearchOption {
	return func(p *SearchProvider) { p.baseURL = strings.TrimSuffix(base, "/") }
}

// NewSearchProvider creates the search_web capability.
func NewSearchProvider(apiKey string, opts ...SearchOption) *SearchProvider {
	p := &SearchProvider{
		apiKey:  apiKey,
		baseURL: defaultBraveBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SearchProvider) Name() string { return "search_web" }

func (p *SearchProvider) Validate(params map[string]any) error {
	if stringParam(params, "query", "q") == "" {
		return missingParam("search_web", "'query'")
	}
	return nil
}

func (p *SearchProvider) Invoke(ctx context.Context, params map[string]any) (any, error) {
	query := stringParam(params, "query", "q")
	limit := 5
	if n, ok := numberParam(params, "limit"); ok && n > 0 {
		limit = int(n)
	}

	if p.apiKey == "" {
		results := simulatedResults(query, limit)
		return map[string]any{
			"query":         query,
			"results":       results,
			"total_results": len(results),
			"note":          "Simulated search results. Configure a search API key for live results.",
		}, nil
	}

	return p.braveSearch(ctx, query, limit)
}

func (p *SearchProvider) braveSearch(ctx context.Context, query string, limit int) (any, error) {
	endpoint := fmt.Sprintf("%s/res/v1/web/search?q=%s&count=%d",
		p.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var data struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	results := make([]map[string]any, 0, len(data.Web.Results))
	for i, r := range data.Web.Results {
		if i >= limit {
			break
		}
		results = append(results, map[string]any{
			"title":       r.Title,
			"url":         r.URL,
			"description": r.Description,
			"type":        "web",
			"rank":        i + 1,
		})
	}

	return map[string]any{
		"query":         query,
		"results":       results,
		"total_results": len(results),
	}, nil
}

// simulatedResults mirrors the shape of real results: keyword-specific
// entries first, then generic fillers up to the limit.
func simulatedResults(query string, limit int) []map[string]any {
	lower := strings.ToLower(query)
	var results []map[string]any

	if strings.Contains(lower, "weather") {
		results = append(results, map[string]any{
			"title":       "Weather.com - National and Local Weather Radar",
			"url":         "https://weather.com",
			"description": "Get the latest weather information, forecasts, and radar maps for your location.",
			"type":        "weather",
		})
	}
	if strings.Contains(lower, "github") || strings.Contains(lower, "code") {
		results = append(results, map[string]any{
			"title":       "GitHub - Where the world builds software",
			"url":         "https://github.com",
			"description": "GitHub is where over 100 million developers shape the future of software, together.",
			"type":        "development",
		})
	}
	if strings.Contains(lower, "go") || strings.Contains(lower, "programming") {
		results = append(results, map[string]any{
			"title":       "Go Documentation",
			"url":         "https://go.dev/doc/",
			"description": "Documentation and tutorials for the Go programming language.",
			"type":        "documentation",
		})
	}

	escaped := url.QueryEscape(query)
	generic := []map[string]any{
		{
			"title":       fmt.Sprintf("Search results for %q", query),
			"url":         "https://search.example.com/search?q=" + escaped,
			"description": fmt.Sprintf("Comprehensive search results and information about %s.", query),
			"type":        "general",
		},
		{
			"title":       query + " - Wikipedia",
			"url":         "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(query, " ", "_")),
			"description": fmt.Sprintf("Learn more about %s on Wikipedia, the free encyclopedia.", query),
			"type":        "encyclopedia",
		},
		{
			"title":       query + " - YouTube",
			"url":         "https://youtube.com/results?search_query=" + escaped,
			"description": fmt.Sprintf("Watch videos and tutorials about %s on YouTube.", query),
			"type":        "video",
		},
		{
			"title":       query + " - Stack Overflow",
			"url":         "https://stackoverflow.com/search?q=" + escaped,
			"description": fmt.Sprintf("Find programming questions and answers related to %s.", query),
			"type":        "qa",
		},
		{
			"title":       query + " - Reddit",
			"url":         "https://reddit.com/search?q=" + escaped,
			"description": fmt.Sprintf("Community discussions and content about %s on Reddit.", query),
			"type":        "social",
		},
	}
	results = append(results, generic...)

	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i]["rank"] = i + 1
	}
	return results
}

// Format falls back to the generic template.
func (p *SearchProvider) Format(any) (string, bool) { return "", false }
