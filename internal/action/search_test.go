package action

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchResult(t *testing.T, p *SearchProvider, params map[string]any) map[string]any {
	t.Helper()
	result, err := p.Invoke(context.Background(), params)
	require.NoError(t, err)
	m, ok := result.(map[string]any)
	require.True(t, ok)
	return m
}

func TestSearchSimulatedWithoutKey(t *testing.T) {
	p := NewSearchProvider("")
	m := searchResult(t, p, map[string]any{"query": "golang tutorials"})

	assert.Equal(t, "golang tutorials", m["query"])
	assert.Contains(t, m["note"], "Simulated")

	results, ok := m["results"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, results, 5, "default limit is five results")
	assert.Equal(t, 5, m["total_results"])
	for i, r := range results {
		assert.Equal(t, i+1, r["rank"])
		assert.NotEmpty(t, r["title"])
		assert.NotEmpty(t, r["url"])
	}
}

func TestSearchSimulatedKeywordHitsFirst(t *testing.T) {
	p := NewSearchProvider("")
	m := searchResult(t, p, map[string]any{"query": "weather in Tokyo"})

	results := m["results"].([]map[string]any)
	require.NotEmpty(t, results)
	assert.Equal(t, "weather", results[0]["type"])
}

func TestSearchSimulatedRespectsLimit(t *testing.T) {
	p := NewSearchProvider("")
	m := searchResult(t, p, map[string]any{"query": "anything", "limit": 2.0})

	results := m["results"].([]map[string]any)
	assert.Len(t, results, 2)
	assert.Equal(t, 2, m["total_results"])
}

func TestSearchBraveAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/res/v1/web/search", r.URL.Path)
		assert.Equal(t, "go concurrency", r.URL.Query().Get("q"))
		assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
		w.Write([]byte(`{"web": {"results": [
			{"title": "Go Concurrency Patterns", "url": "https://go.dev/talks", "description": "Talks about concurrency."},
			{"title": "Effective Go", "url": "https://go.dev/doc/effective_go", "description": "The classic guide."}
		]}}`))
	}))
	defer srv.Close()

	p := NewSearchProvider("brave-key", WithSearchBaseURL(srv.URL))
	m := searchResult(t, p, map[string]any{"query": "go concurrency"})

	results, ok := m["results"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "Go Concurrency Patterns", results[0]["title"])
	assert.Equal(t, 1, results[0]["rank"])
	assert.Equal(t, "web", results[0]["type"])
	assert.Equal(t, 2, m["total_results"])
}

func TestSearchBraveAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewSearchProvider("bad-key", WithSearchBaseURL(srv.URL))
	_, err := p.Invoke(context.Background(), map[string]any{"query": "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchValidate(t *testing.T) {
	p := NewSearchProvider("")

	assert.NoError(t, p.Validate(map[string]any{"query": "x"}))
	assert.NoError(t, p.Validate(map[string]any{"q": "x"}))
	assert.Error(t, p.Validate(map[string]any{}))
	assert.Error(t, p.Validate(map[string]any{"query": "   "}))
}
