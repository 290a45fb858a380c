package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/arise/internal/action"
	"github.com/soyeahso/arise/internal/domain"
)

// MemoryTurnStore is an in-memory TurnStore for tests and ephemeral
// sessions. Same seeding contract as the SQLite one.
type MemoryTurnStore struct {
	mu    sync.Mutex
	turns map[string][]domain.Turn
}

var _ TurnStore = (*MemoryTurnStore)(nil)

// NewMemoryTurnStore creates an empty in-memory turn store.
func NewMemoryTurnStore() *MemoryTurnStore {
	return &MemoryTurnStore{turns: make(map[string][]domain.Turn)}
}

func (s *MemoryTurnStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *MemoryTurnStore) Load(_ context.Context, sessionID string) ([]domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.turns[sessionID]
	if !ok || len(stored) == 0 {
		welcome := domain.NewWelcomeTurn()
		s.turns[sessionID] = []domain.Turn{welcome}
		stored = s.turns[sessionID]
	}

	out := make([]domain.Turn, len(stored))
	copy(out, stored)
	return out, nil
}

// MemoryTodoStore is an in-memory action.TodoStore.
type MemoryTodoStore struct {
	mu    sync.Mutex
	todos []domain.Todo
}

var _ action.TodoStore = (*MemoryTodoStore)(nil)

// NewMemoryTodoStore creates an empty in-memory todo store.
func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{}
}

func (s *MemoryTodoStore) List(context.Context) ([]domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

func (s *MemoryTodoStore) Create(_ context.Context, todo domain.Todo) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}
	todo.Priority = domain.NormalizePriority(todo.Priority)
	s.todos = append(s.todos, todo)
	return todo, nil
}

func (s *MemoryTodoStore) Update(_ context.Context, todo domain.Todo) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == todo.ID {
			todo.Priority = domain.NormalizePriority(todo.Priority)
			todo.CreatedAt = s.todos[i].CreatedAt
			s.todos[i] = todo
			return todo, nil
		}
	}
	return domain.Todo{}, ErrTodoNotFound
}

func (s *MemoryTodoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return ErrTodoNotFound
}
