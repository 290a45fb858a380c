package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiOK(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]},"finishReason":"STOP"}]}`
}

func TestGeminiComplete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash")
		assert.Contains(t, r.URL.RawQuery, "key=test-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(geminiOK("Hello there!")))
	}))
	defer srv.Close()

	g := NewGeminiClient("test-key", nil, WithBaseURL(srv.URL))
	resp, err := g.Complete(context.Background(), CompletionRequest{
		System:    "be brief",
		Messages:  []Message{{Role: RoleUser, Content: "hi"}},
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", resp.Content)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	prompt := parts[0].(map[string]any)["text"].(string)
	assert.Contains(t, prompt, "be brief")
	assert.Contains(t, prompt, "User: hi")
	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
}

func TestGeminiModelFallback(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, "model-a") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(geminiOK("from b")))
	}))
	defer srv.Close()

	g := NewGeminiClient("k", []string{"model-a", "model-b"}, WithBaseURL(srv.URL))
	resp, err := g.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "from b", resp.Content)
	assert.Equal(t, "model-b", resp.Model)
	assert.Len(t, paths, 2)
}

func TestGeminiAllModelsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGeminiClient("k", []string{"m1", "m2"}, WithBaseURL(srv.URL))
	_, err := g.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusTooManyRequests, terr.StatusCode)
	assert.Equal(t, FailureRateLimit, terr.Class())
}

func TestGeminiNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	g := NewGeminiClient("k", []string{"m1"}, WithBaseURL(srv.URL))
	_, err := g.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.StatusCode)
	assert.Equal(t, FailureOffline, terr.Class())
}

func TestGeminiSafetyBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient("k", []string{"m1"}, WithBaseURL(srv.URL))
	resp, err := g.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "safety guidelines")
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient("k", []string{"m1"}, WithBaseURL(srv.URL))
	resp, err := g.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "couldn't generate a response")
}

func TestTransportErrorClasses(t *testing.T) {
	tests := []struct {
		status int
		want   FailureClass
	}{
		{401, FailureAuth},
		{403, FailureAuth},
		{429, FailureRateLimit},
		{500, FailureServer},
		{503, FailureServer},
		{0, FailureOffline},
		{404, FailureOffline},
	}
	for _, tt := range tests {
		e := &TransportError{Provider: "gemini", StatusCode: tt.status}
		assert.Equal(t, tt.want, e.Class(), "status %d", tt.status)
		assert.NotEmpty(t, e.UserMessage())
	}
}

func TestSystemPromptShape(t *testing.T) {
	assert.Contains(t, SystemPrompt, `{"type":"action","action":"ACTION_NAME","params":{"key":"value"}}`)
	for _, action := range []string{
		"fetch_github_stats", "fetch_weather", "create_todo",
		"send_email", "search_web", "get_time", "calculate",
	} {
		assert.Contains(t, SystemPrompt, action)
	}
}
