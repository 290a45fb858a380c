package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// DefaultGeminiModels is the fallback chain tried in order until one
// model answers.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro-002",
	"gemini-1.5-flash-002",
}

// GeminiClient is a direct HTTP client for the Gemini generateContent API.
type GeminiClient struct {
	apiKey  string
	models  []string
	baseURL string
	client  *http.Client
}

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(base string) GeminiOption {
	return func(g *GeminiClient) { g.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiClient) { g.client = c }
}

// NewGeminiClient creates a Gemini client. An empty models list uses
// DefaultGeminiModels.
func NewGeminiClient(apiKey string, models []string, opts ...GeminiOption) *GeminiClient {
	if len(models) == 0 {
		models = DefaultGeminiModels
	}
	g := &GeminiClient{
		apiKey:  apiKey,
		models:  models,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the provider name.
func (g *GeminiClient) Name() string { return "gemini" }

// Complete flattens the request into a single prompt and tries each
// model in the fallback chain until one succeeds. The error from the
// last attempt is returned as a TransportError.
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	payload, err := json.Marshal(g.buildRequestBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr *TransportError
	for _, model := range g.models {
		resp, terr := g.tryModel(ctx, model, payload)
		if terr == nil {
			return resp, nil
		}
		lastErr = terr
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = &TransportError{Provider: "gemini", Message: "no models configured"}
	}
	return nil, lastErr
}

func (g *GeminiClient) tryModel(ctx context.Context, model string, payload []byte) (*CompletionResponse, *TransportError) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, model, url.QueryEscape(g.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, &TransportError{Provider: "gemini", Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: "gemini", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: "gemini", Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Provider:   "gemini",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s: %s", model, truncate(string(body), 200)),
		}
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Provider: "gemini", Message: "parsing response: " + err.Error()}
	}

	return &CompletionResponse{
		Content: strings.TrimSpace(result.text()),
		Model:   model,
	}, nil
}

func (g *GeminiClient) buildRequestBody(req CompletionRequest) map[string]any {
	genConfig := map[string]any{
		"topP":           0.95,
		"topK":           40,
		"candidateCount": 1,
	}
	if req.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = req.MaxTokens
	}
	if req.Temperature != nil {
		genConfig["temperature"] = *req.Temperature
	}

	return map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(req)}}},
		},
		"generationConfig": genConfig,
	}
}

// buildPrompt flattens system instruction and turn history into a single
// prompt string.
func buildPrompt(req CompletionRequest) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	b.WriteString("Assistant:")
	return b.String()
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return "I apologize, but I couldn't generate a response. Please try rephrasing your question."
	}
	c := r.Candidates[0]
	if c.FinishReason == "SAFETY" {
		return "I cannot provide a response to that request due to safety guidelines. Please try asking something else."
	}
	if len(c.Content.Parts) == 0 {
		return "I apologize, but I couldn't generate a response."
	}
	return c.Content.Parts[0].Text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
