package action

import (
	"context"
	"time"

	"github.com/soyeahso/arise/internal/domain"
)

// TodoStore is the injected storage dependency behind create_todo. It is
// an interface so tests substitute a fresh instance per case; there is
// no package-level todo list anywhere.
type TodoStore interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id string) error
}

// TodoProvider answers create_todo against an injected TodoStore.
type TodoProvider struct {
	store TodoStore
}

// NewTodoProvider creates the create_todo capability.
func NewTodoProvider(store TodoStore) *TodoProvider {
	return &TodoProvider{store: store}
}

func (p *TodoProvider) Name() string { return "create_todo" }

func (p *TodoProvider) Validate(params map[string]any) error {
	if stringParam(params, "title") == "" {
		return missingParam("create_todo", "'title'")
	}
	return nil
}

func (p *TodoProvider) Invoke(ctx context.Context, params map[string]any) (any, error) {
	todo := domain.Todo{
		Title:       stringParam(params, "title"),
		Description: stringParam(params, "description"),
		Priority:    domain.NormalizePriority(stringParam(params, "priority")),
		CreatedAt:   time.Now(),
	}

	created, err := p.store.Create(ctx, todo)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":          created.ID,
		"title":       created.Title,
		"description": created.Description,
		"priority":    created.Priority,
		"completed":   created.Completed,
		"created_at":  created.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (p *TodoProvider) Format(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	id, _ := m["id"].(string)
	title, _ := m["title"].(string)
	if id == "" || title == "" {
		return "", false
	}
	return `Todo created: "` + title + `"`, true
}
