package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/arise/internal/session"
)

// safeConfigPrefixes lists config path prefixes that can be read and
// written via RPC. All other paths are denied by default (allowlist).
var safeConfigPrefixes = []string{
	"gateway.port",
	"gateway.bind",
	"gateway.customBindHost",
	"logging",
	"session",
	"speech",
}

func isAllowedConfigPath(key string) bool {
	for _, prefix := range safeConfigPrefixes {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			return true
		}
	}
	return false
}

// modelCallTimeout bounds one full send, including the model call and
// any action execution it triggers.
const modelCallTimeout = 5 * time.Minute

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

// registerRPCHandlers sets up all JSON-RPC method handlers.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("config.get", s.rpcConfigGet)
	s.Handle("config.set", s.rpcConfigSet)
	s.Handle("chat.send", s.rpcChatSend)
	s.Handle("chat.history", s.rpcChatHistory)
	s.Handle("task.list", s.rpcTaskList)
	s.Handle("todo.list", s.rpcTodoList)
}

// Built-in RPC handlers

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(HealthResponse{
		Status:  "ok",
		Version: s.version,
		Clients: s.clients.Count(),
	})
}

type configGetParams struct {
	Key string `json:"key"`
}

func (s *Server) rpcConfigGet(rc *RequestContext) {
	var p configGetParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Key == "" {
		rc.RespondError("invalid_params", "key is required")
		return
	}
	if !isAllowedConfigPath(p.Key) {
		rc.RespondError("forbidden", "access denied for config path: "+p.Key)
		return
	}

	s.mu.RLock()
	raw := s.configRaw
	s.mu.RUnlock()

	path, err := parseConfigPathForRPC(p.Key)
	if err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	val, ok := getValueAtPathRPC(raw, path)
	if !ok {
		rc.RespondError("not_found", "key not found: "+p.Key)
		return
	}
	rc.Respond(map[string]any{"key": p.Key, "value": val})
}

type configSetParams struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (s *Server) rpcConfigSet(rc *RequestContext) {
	var p configSetParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Key == "" {
		rc.RespondError("invalid_params", "key is required")
		return
	}
	if !isAllowedConfigPath(p.Key) {
		rc.RespondError("forbidden", "cannot modify config path: "+p.Key)
		return
	}

	path, err := parseConfigPathForRPC(p.Key)
	if err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	s.mu.Lock()
	setValueAtPathRPC(s.configRaw, path, p.Value)
	s.mu.Unlock()

	rc.Respond(map[string]any{"key": p.Key, "value": p.Value})
}

type chatSendParams struct {
	Message string `json:"message"`
}

func (s *Server) rpcChatSend(rc *RequestContext) {
	if s.engine == nil {
		rc.RespondError("unavailable", "no conversation engine configured")
		return
	}

	var p chatSendParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), modelCallTimeout)
	defer cancel()

	before := len(s.engine.History())
	if err := s.engine.Send(ctx, p.Message); err != nil {
		if errors.Is(err, session.ErrEmptyInput) {
			rc.RespondError("invalid_params", "message is required")
			return
		}
		rc.RespondError("chat_error", err.Error())
		return
	}

	history := s.engine.History()
	if before > len(history) {
		before = len(history)
	}
	rc.Respond(map[string]any{
		"sessionId": s.engine.ID(),
		"turns":     history[before:],
	})
}

func (s *Server) rpcChatHistory(rc *RequestContext) {
	if s.engine == nil {
		rc.RespondError("unavailable", "no conversation engine configured")
		return
	}
	rc.Respond(map[string]any{
		"sessionId": s.engine.ID(),
		"turns":     s.engine.History(),
	})
}

func (s *Server) rpcTaskList(rc *RequestContext) {
	if s.tracker == nil {
		rc.Respond(map[string]any{"tasks": []any{}})
		return
	}
	rc.Respond(map[string]any{"tasks": s.tracker.List()})
}

func (s *Server) rpcTodoList(rc *RequestContext) {
	if s.todos == nil {
		rc.Respond(map[string]any{"todos": []any{}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	todos, err := s.todos.List(ctx)
	if err != nil {
		rc.RespondError("store_error", err.Error())
		return
	}
	rc.Respond(map[string]any{"todos": todos})
}

// Helpers that mirror config.ParseConfigPath / GetValueAtPath without
// importing config — they operate on raw maps only.

func parseConfigPathForRPC(raw string) ([]string, error) {
	if raw == "" {
		return nil, ErrEmptyConfigPath
	}
	var parts []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '.' {
			if i == start {
				return nil, ErrEmptyConfigPath
			}
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}
	return parts, nil
}

func getValueAtPathRPC(root map[string]any, path []string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func setValueAtPathRPC(root map[string]any, path []string, value any) {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		m, ok := next.(map[string]any)
		if !ok {
			m = map[string]any{}
			current[key] = m
		}
		current = m
	}
	current[path[len(path)-1]] = value
}
